package bootstrap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/exambook/internal/config"
	pkgAuth "github.com/yigit/exambook/internal/pkg/auth"
	"github.com/yigit/exambook/internal/pkg/logger"
)

const (
	adminEmail    = "admin@exambook.test"
	adminPassword = "admin-password"
)

func TestMain(m *testing.M) {
	pkgAuth.BcryptCost = 4
	logger.Configure(logger.Config{Level: logger.DisabledLevel})
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"error"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.JWT.Issuer = "exambook.test"
	cfg.Seed.AdminEmail = adminEmail
	cfg.Seed.AdminPassword = adminPassword
	cfg.Seed.AdminFirstName = "System"
	cfg.Seed.AdminLastName = "Administrator"

	storage, err := SetupDatabase(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	deps, err := BuildDependencies(cfg, storage, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(deps.Close)
	return &api{t: t, router: SetupRouter(cfg, deps, zerolog.Nop())}
}

func (a *api) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(req)
}

func (a *api) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			a.t.Fatalf("%s %s: decode body %q: %v", req.Method, req.URL, w.Body.String(), err)
		}
	}
	return w, env
}

func (a *api) login(email, password string) *httptest.ResponseRecorder {
	a.t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *api) token(email, password string) string {
	a.t.Helper()
	w := a.login(email, password)
	if w.Code != http.StatusOK {
		a.t.Fatalf("login %s: %d %s", email, w.Code, w.Body.String())
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tok); err != nil || tok.TokenType != "bearer" {
		a.t.Fatalf("bad token response %s", w.Body.String())
	}
	return tok.AccessToken
}

// createID posts body and returns the id of the created resource
func (a *api) createID(path, token string, body interface{}) int64 {
	a.t.Helper()
	w, env := a.do(http.MethodPost, path, token, body)
	if w.Code != http.StatusCreated {
		a.t.Fatalf("POST %s: %d %s", path, w.Code, w.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		a.t.Fatal(err)
	}
	return created.ID
}

func (a *api) register(email, role string) int64 {
	a.t.Helper()
	return a.createID("/api/auth/register", "", map[string]interface{}{
		"email": email, "password": "password123", "first_name": "First", "last_name": "Last", "role": role,
	})
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, env envelope, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d: %s", w.Code, status, w.Body.String())
	}
	if env.Success || env.Error == nil || env.Error.Code != code {
		t.Fatalf("error code mismatch, want %s: %s", code, w.Body.String())
	}
}

func TestLogin(t *testing.T) {
	a := newAPI(t)

	token := a.token(adminEmail, adminPassword)
	w, env := a.do(http.MethodGet, "/api/users/me", token, nil)
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("GET /users/me: %d %s", w.Code, w.Body.String())
	}
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	_ = json.Unmarshal(env.Data, &me)
	if me.Email != adminEmail || me.Role != "admin" {
		t.Fatalf("unexpected profile %+v", me)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatal("profile leaks password")
	}

	w = a.login(adminEmail, "wrong-password")
	if w.Code != http.StatusUnauthorized || w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("bad credentials: %d %v", w.Code, w.Header())
	}

	w = a.login(adminEmail, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing password: %d", w.Code)
	}
}

func TestAuthenticationFailures(t *testing.T) {
	a := newAPI(t)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "AUTH_008"},
		{"wrong scheme", "Basic abc", "AUTH_008"},
		{"garbage token", "Bearer not.a.token", "AUTH_008"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w, env := a.serve(req)
			expectError(t, w, env, http.StatusUnauthorized, tt.code)
			if w.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Fatal("missing bearer challenge")
			}
		})
	}

	// token of a deleted user
	admin := a.token(adminEmail, adminPassword)
	id := a.register("gone@uni.test", "student")
	gone := a.token("gone@uni.test", "password123")
	if w, _ := a.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", id), admin, nil); w.Code != http.StatusOK {
		t.Fatalf("delete user: %d", w.Code)
	}
	w, env := a.do(http.MethodGet, "/api/users/me", gone, nil)
	expectError(t, w, env, http.StatusUnauthorized, "AUTH_008")
}

func TestRegister(t *testing.T) {
	a := newAPI(t)

	a.register("ada@uni.test", "student")

	w, env := a.do(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email": "ada@uni.test", "password": "password123", "first_name": "A", "last_name": "B",
	})
	expectError(t, w, env, http.StatusBadRequest, "RES_002")
	if env.Error.Field != "email" {
		t.Fatalf("field = %q", env.Error.Field)
	}

	w, env = a.do(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email": "not-an-email", "password": "short", "first_name": "A", "last_name": "B",
	})
	expectError(t, w, env, http.StatusBadRequest, "VAL_001")

	adminReq := map[string]interface{}{
		"email": "root@uni.test", "password": "password123", "first_name": "R", "last_name": "R", "role": "admin",
	}
	w, env = a.do(http.MethodPost, "/api/auth/register", "", adminReq)
	expectError(t, w, env, http.StatusForbidden, "AUTH_009")

	admin := a.token(adminEmail, adminPassword)
	if w, _ := a.do(http.MethodPost, "/api/auth/register", admin, adminReq); w.Code != http.StatusCreated {
		t.Fatalf("admin registering admin: %d %s", w.Code, w.Body.String())
	}
}

func TestCapabilities(t *testing.T) {
	a := newAPI(t)
	admin := a.token(adminEmail, adminPassword)
	studentID := a.register("stud@uni.test", "student")
	otherID := a.register("other@uni.test", "student")
	a.register("prof@uni.test", "professor")
	student := a.token("stud@uni.test", "password123")
	professor := a.token("prof@uni.test", "password123")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
	}{
		{"student lists users", http.MethodGet, "/api/users", student, nil, http.StatusForbidden},
		{"admin lists users", http.MethodGet, "/api/users", admin, nil, http.StatusOK},
		{"student reads self", http.MethodGet, fmt.Sprintf("/api/users/%d", studentID), student, nil, http.StatusOK},
		{"student reads other", http.MethodGet, fmt.Sprintf("/api/users/%d", otherID), student, nil, http.StatusForbidden},
		{"admin reads other", http.MethodGet, fmt.Sprintf("/api/users/%d", otherID), admin, nil, http.StatusOK},
		{"student deletes self", http.MethodDelete, fmt.Sprintf("/api/users/%d", studentID), student, nil, http.StatusForbidden},
		{"professor creates course", http.MethodPost, "/api/courses", professor, map[string]interface{}{"name": "X", "code": "X1", "credits": 6, "professor_id": 1}, http.StatusForbidden},
		{"student creates exam", http.MethodPost, "/api/exams", student, map[string]interface{}{}, http.StatusForbidden},
		{"student lists bookings", http.MethodGet, "/api/bookings", student, nil, http.StatusForbidden},
		{"student lists other bookings", http.MethodGet, fmt.Sprintf("/api/bookings/student/%d", otherID), student, nil, http.StatusForbidden},
		{"invalid id", http.MethodGet, "/api/users/abc", admin, nil, http.StatusBadRequest},
		{"unknown user", http.MethodGet, "/api/users/999", admin, nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := a.do(tt.method, tt.path, tt.token, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestBookingFlow(t *testing.T) {
	a := newAPI(t)
	admin := a.token(adminEmail, adminPassword)

	profID := a.createID("/api/users", admin, map[string]interface{}{
		"email": "prof@uni.test", "password": "password123", "first_name": "P", "last_name": "P", "role": "professor",
	})
	professor := a.token("prof@uni.test", "password123")
	courseID := a.createID("/api/courses", admin, map[string]interface{}{
		"name": "Programming", "code": "CS101", "credits": 6, "professor_id": profID,
	})
	examID := a.createID("/api/exams", professor, map[string]interface{}{
		"course_id": courseID, "date": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"location": "Room A1", "max_students": 1,
	})

	aliceID := a.register("alice@uni.test", "student")
	a.register("bob@uni.test", "student")
	alice := a.token("alice@uni.test", "password123")
	bob := a.token("bob@uni.test", "password123")

	bookingID := a.createID("/api/bookings", alice, map[string]interface{}{"exam_id": examID})

	w, env := a.do(http.MethodPost, "/api/bookings", alice, map[string]interface{}{"exam_id": examID})
	expectError(t, w, env, http.StatusBadRequest, "BOOK_001")

	w, env = a.do(http.MethodPost, "/api/bookings", bob, map[string]interface{}{"exam_id": examID})
	expectError(t, w, env, http.StatusBadRequest, "BOOK_004")

	w, env = a.do(http.MethodPost, "/api/bookings", bob, map[string]interface{}{"exam_id": examID, "student_id": aliceID})
	expectError(t, w, env, http.StatusForbidden, "AUTH_009")

	w, env = a.do(http.MethodPost, "/api/bookings", professor, map[string]interface{}{"exam_id": examID})
	expectError(t, w, env, http.StatusBadRequest, "AUTH_010")

	w, env = a.do(http.MethodGet, fmt.Sprintf("/api/bookings/exam/%d/count", examID), professor, nil)
	if w.Code != http.StatusOK || string(env.Data) != `{"count":1}` {
		t.Fatalf("count: %d %s", w.Code, w.Body.String())
	}

	if w, _ := a.do(http.MethodGet, fmt.Sprintf("/api/bookings/%d", bookingID), bob, nil); w.Code != http.StatusForbidden {
		t.Fatalf("bob reading alice's booking: %d", w.Code)
	}
	if w, _ := a.do(http.MethodGet, fmt.Sprintf("/api/bookings/%d", bookingID), alice, nil); w.Code != http.StatusOK {
		t.Fatalf("alice reading her booking: %d", w.Code)
	}

	w, env = a.do(http.MethodPut, fmt.Sprintf("/api/exams/%d", examID), professor, map[string]interface{}{"max_students": 0})
	expectError(t, w, env, http.StatusBadRequest, "VAL_001")

	if w, _ := a.do(http.MethodDelete, fmt.Sprintf("/api/bookings/student/%d/exam/%d", aliceID, examID), alice, nil); w.Code != http.StatusOK {
		t.Fatalf("cancel: %d", w.Code)
	}
	a.createID("/api/bookings", bob, map[string]interface{}{"exam_id": examID})

	w, env = a.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", profID), admin, nil)
	expectError(t, w, env, http.StatusConflict, "RES_004")

	if w, _ := a.do(http.MethodDelete, fmt.Sprintf("/api/courses/%d", courseID), admin, nil); w.Code != http.StatusOK {
		t.Fatalf("delete course: %d", w.Code)
	}
	w, env = a.do(http.MethodGet, fmt.Sprintf("/api/exams/%d", examID), alice, nil)
	expectError(t, w, env, http.StatusNotFound, "RES_001")
}

func TestOperationalEndpoints(t *testing.T) {
	a := newAPI(t)

	for _, path := range []string{"/ping", "/api/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s: %d", path, w.Code)
		}
	}

	_, env := a.do(http.MethodGet, "/api/health", "", nil)
	if string(env.Data) != `{"status":"ok","database":"memory"}` {
		t.Fatalf("health data %s", env.Data)
	}
}
