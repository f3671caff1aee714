package bootstrap

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	ws "github.com/yigit/exambook/internal/pkg/websocket"
)

func TestSeatFeed(t *testing.T) {
	a := newAPI(t)
	admin := a.token(adminEmail, adminPassword)

	profID := a.createID("/api/users", admin, map[string]interface{}{
		"email": "prof@uni.test", "password": "password123", "first_name": "P", "last_name": "P", "role": "professor",
	})
	courseID := a.createID("/api/courses", admin, map[string]interface{}{
		"name": "Programming", "code": "CS101", "credits": 6, "professor_id": profID,
	})
	examID := a.createID("/api/exams", admin, map[string]interface{}{
		"course_id": courseID, "date": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"location": "Room A1", "max_students": 2,
	})
	a.register("alice@uni.test", "student")
	alice := a.token("alice@uni.test", "password123")

	srv := httptest.NewServer(a.router)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	t.Run("requires a token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s/api/exams/%d/seats/ws", base, examID), nil)
		if err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("got err=%v resp=%v", err, resp)
		}
	})

	t.Run("unknown exam", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s/api/exams/9999/seats/ws?token=%s", base, alice), nil)
		if err == nil || resp == nil || resp.StatusCode != http.StatusNotFound {
			t.Fatalf("got err=%v resp=%v", err, resp)
		}
	})

	header := http.Header{"Authorization": {"Bearer " + alice}}
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s/api/exams/%d/seats/ws", base, examID), header)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	read := func() ws.SeatUpdate {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var u ws.SeatUpdate
		if err := conn.ReadJSON(&u); err != nil {
			t.Fatal(err)
		}
		return u
	}

	if u := read(); u.ExamID != examID || u.Confirmed != 0 || u.Available != 2 {
		t.Fatalf("initial snapshot %+v", u)
	}

	a.createID("/api/bookings", alice, map[string]interface{}{"exam_id": examID})
	if u := read(); u.Type != "seats" || u.Confirmed != 1 || u.MaxStudents != 2 || u.Available != 1 {
		t.Fatalf("after booking %+v", u)
	}
}
