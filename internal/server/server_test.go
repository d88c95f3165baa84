package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func serve(s *Server, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	rec := serve(s, http.MethodGet, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/health: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Uptime == "" {
		t.Errorf("unexpected health body %+v", body)
	}

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		if rec := serve(s, method, "/api/health"); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s /api/health: status %d, want 405", method, rec.Code)
		}
	}
}

func TestServer_Routes(t *testing.T) {
	dir := t.TempDir()
	index := "<html><body>Fitness assessment</body></html>"
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(index), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("connect()"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  Config
		path string
		code int
		body string
	}{
		{"index", Config{StaticDir: dir}, "/", http.StatusOK, index},
		{"asset", Config{StaticDir: dir}, "/app.js", http.StatusOK, "connect()"},
		{"missing asset", Config{StaticDir: dir}, "/nope.html", http.StatusNotFound, ""},
		{"no static dir", Config{}, "/", http.StatusNotFound, ""},
		{"unknown api", Config{}, "/api/nonexistent", http.StatusNotFound, ""},
		{"no controller", Config{}, "/api/assessment", http.StatusNotFound, ""},
		{"no live without controller", Config{}, "/api/live", http.StatusNotFound, ""},
		{"no store", Config{}, "/api/sessions", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.cfg)
			defer s.Close()

			rec := serve(s, http.MethodGet, tt.path)
			if rec.Code != tt.code {
				t.Errorf("status %d, want %d", rec.Code, tt.code)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestServer_RunShutdown(t *testing.T) {
	s := New(Config{})
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestServer_RunBadAddr(t *testing.T) {
	s := New(Config{})
	if err := s.Run(context.Background(), "bad-address"); err == nil {
		t.Error("expected listen error")
	}
}
