package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func TestNewSeatUpdateClampsAvailable(t *testing.T) {
	tests := []struct {
		confirmed, max, want int
	}{
		{0, 10, 10},
		{4, 10, 6},
		{10, 10, 0},
		{12, 10, 0},
	}
	for _, tt := range tests {
		if got := NewSeatUpdate(1, tt.confirmed, tt.max).Available; got != tt.want {
			t.Errorf("NewSeatUpdate(%d, %d).Available = %d, want %d", tt.confirmed, tt.max, got, tt.want)
		}
	}
}

func TestHubRoutesUpdatesByExam(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		examID := int64(1)
		if r.URL.Query().Get("exam") == "2" {
			examID = 2
		}
		if err := Serve(hub, w, r, 7, NewSeatUpdate(examID, 0, 5)); err != nil {
			t.Errorf("Serve: %v", err)
		}
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	dial := func(query string) *websocket.Conn {
		t.Helper()
		conn, _, err := websocket.DefaultDialer.Dial(url+query, nil)
		if err != nil {
			t.Fatal(err)
		}
		return conn
	}
	read := func(conn *websocket.Conn) SeatUpdate {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var u SeatUpdate
		if err := conn.ReadJSON(&u); err != nil {
			t.Fatal(err)
		}
		return u
	}

	first := dial("?exam=1")
	defer first.Close()
	second := dial("?exam=2")
	defer second.Close()

	// Initial snapshots are written after registration
	if u := read(first); u.ExamID != 1 {
		t.Fatalf("first snapshot %+v", u)
	}
	if u := read(second); u.ExamID != 2 {
		t.Fatalf("second snapshot %+v", u)
	}

	hub.PublishSeats(2, 3, 5)
	if u := read(second); u.ExamID != 2 || u.Confirmed != 3 || u.Available != 2 {
		t.Fatalf("update %+v", u)
	}

	hub.PublishSeats(1, 1, 5)
	if u := read(first); u.ExamID != 1 || u.Confirmed != 1 {
		t.Fatalf("update %+v", u)
	}
	if n := hub.ClientsCount(1); n != 1 {
		t.Fatalf("ClientsCount(1) = %d", n)
	}
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = Serve(hub, w, r, 7, NewSeatUpdate(1, 0, 5))
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatal(err)
	}

	cancel()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNoStatusReceived, websocket.CloseNormalClosure) {
		t.Fatalf("expected close frame, got %v", err)
	}
}
