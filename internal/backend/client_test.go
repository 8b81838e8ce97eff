package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

func TestNewClient_BaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:5000", "http://localhost:5000"},
		{"https://backend.local/", "https://backend.local"},
		{"localhost:5000", "http://localhost:5000"},
	}
	for _, tt := range tests {
		if got := NewClient(tt.in).BaseURL(); got != tt.want {
			t.Errorf("NewClient(%q).BaseURL() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClient_FetchAll(t *testing.T) {
	tests := []struct {
		name      string
		multiHall bool
		path      string
		body      string
		hall      string
	}{
		{"single hall", false, PathCount, `{"entered":{"cam1":1},"exited":{"cam1":0},"inside":{"cam1":1}}`, "lobby"},
		{"multi hall", true, PathHalls, `{"A":{"entered":{"cam1":1},"exited":{"cam1":0},"inside":{"cam1":1}}}`, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != tt.path {
					t.Errorf("request = %s %s, want GET %s", r.Method, r.URL.Path, tt.path)
				}
				if !strings.HasPrefix(r.Header.Get("User-Agent"), "hallwatch/") {
					t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, WithMultiHall(tt.multiHall), WithDefaultHall("lobby"))
			snap, err := c.FetchAll(context.Background())
			if err != nil {
				t.Fatalf("FetchAll: %v", err)
			}
			if _, ok := snap.Get(tt.hall, "cam1"); !ok {
				t.Errorf("snapshot missing %s/cam1: %+v", tt.hall, snap)
			}
		})
	}
}

func TestClient_FetchAll_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).FetchAll(context.Background())
		if !errors.Is(err, domain.ErrRemoteRejected) {
			t.Fatalf("err = %v, want %v", err, domain.ErrRemoteRejected)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).FetchAll(context.Background())
		if !errors.Is(err, domain.ErrRemoteRejected) {
			t.Fatalf("err = %v, want %v", err, domain.ErrRemoteRejected)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewClient(url, WithTimeout(time.Second)).FetchAll(context.Background())
		if !errors.Is(err, domain.ErrRemoteUnavailable) {
			t.Fatalf("err = %v, want %v", err, domain.ErrRemoteUnavailable)
		}
	})
}

func TestClient_AddCamera(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != PathAddCamera {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Camera cam1 added successfully"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).AddCamera(context.Background(), domain.CameraRegistration{
		CameraID: "cam1",
		Link:     "rtsp://10.0.0.1/stream",
	})
	if err != nil {
		t.Fatalf("AddCamera: %v", err)
	}
	if got["camera_id"] != "cam1" || got["camera_link"] != "rtsp://10.0.0.1/stream" {
		t.Errorf("body = %v", got)
	}
	if _, ok := got["hall_id"]; ok {
		t.Error("hall_id should be omitted when empty")
	}
}

func TestClient_AddCamera_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid camera link"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).AddCamera(context.Background(), domain.CameraRegistration{CameraID: "cam1", Link: "x"})
	if !errors.Is(err, domain.ErrRemoteRejected) {
		t.Fatalf("err = %v, want %v", err, domain.ErrRemoteRejected)
	}
	if !strings.Contains(err.Error(), "Invalid camera link") {
		t.Errorf("backend message not preserved: %v", err)
	}
}

func TestClient_RemoveCamera(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathRemoveCamera {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		if got["camera_id"] == "ghost" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Camera not found"}`))
			return
		}
		w.Write([]byte(`{"message":"removed"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.RemoveCamera(context.Background(), "A", "cam1"); err != nil {
		t.Fatalf("RemoveCamera: %v", err)
	}
	if got["hall_id"] != "A" {
		t.Errorf("hall_id = %q, want A", got["hall_id"])
	}

	err := c.RemoveCamera(context.Background(), "", "ghost")
	if !errors.Is(err, domain.ErrRemoteRejected) || !strings.Contains(err.Error(), "404") {
		t.Fatalf("err = %v, want remote rejected with 404", err)
	}
}
