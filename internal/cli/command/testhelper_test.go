package command

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
)

// mockServer is a dashboard stand-in routing on METHOD + path.
type mockServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []*http.Request
	bodies   []map[string]string
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()

	m := &mockServer{handlers: make(map[string]http.HandlerFunc)}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests = append(m.requests, r)
		if r.Body != nil {
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				m.bodies = append(m.bodies, body)
			}
		}
		h, ok := m.handlers[r.Method+" "+r.URL.Path]
		m.mu.Unlock()

		if !ok {
			errorResponse(w, http.StatusNotFound, "HW-TST-4040", "no route")
			return
		}
		h(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mockServer) handle(pattern string, h http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[pattern] = h
}

func (m *mockServer) lastRequest() *http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

func (m *mockServer) lastBody() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.bodies) == 0 {
		return nil
	}
	return m.bodies[len(m.bodies)-1]
}

// jsonResponse writes a success envelope.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":       "OK",
		"message":    "Success",
		"request_id": "req-test",
		"data":       data,
	})
}

// errorResponse writes an error envelope.
func errorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}

// run executes the CLI against the mock server and returns stdout.
func run(t *testing.T, server *mockServer, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = io.Discard

	full := []string{"hallwatch-cli", "--config", filepath.Join(t.TempDir(), "cli.yaml"), "--server", server.URL}
	err := app.Run(append(full, args...))
	return out.String(), err
}
