package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestParseSkipLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query     string
		wantSkip  int
		wantLimit int
	}{
		{"", 0, DefaultLimit},
		{"?skip=5&limit=10", 5, 10},
		{"?skip=-1&limit=0", 0, DefaultLimit},
		{"?skip=abc&limit=xyz", 0, DefaultLimit},
		{"?limit=100000", 0, MaxLimit},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/items"+tt.query, nil)

		skip, limit := ParseSkipLimit(c)
		if skip != tt.wantSkip || limit != tt.wantLimit {
			t.Errorf("query %q: got (%d, %d), want (%d, %d)", tt.query, skip, limit, tt.wantSkip, tt.wantLimit)
		}
	}
}

func TestSliceWindow(t *testing.T) {
	tests := []struct {
		skip, limit, total int
		start, end         int
	}{
		{0, 10, 5, 0, 5},
		{2, 2, 5, 2, 4},
		{10, 2, 5, 5, 5},
		{-3, 2, 5, 0, 2},
	}
	for _, tt := range tests {
		start, end := SliceWindow(tt.skip, tt.limit, tt.total)
		if start != tt.start || end != tt.end {
			t.Errorf("SliceWindow(%d,%d,%d) = (%d,%d), want (%d,%d)", tt.skip, tt.limit, tt.total, start, end, tt.start, tt.end)
		}
	}
}

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("90m", time.Hour); got != 90*time.Minute {
		t.Fatalf("got %v", got)
	}
	if got := ParseDuration("nonsense", time.Hour); got != time.Hour {
		t.Fatalf("expected default, got %v", got)
	}
}
