package connection

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		name       string
		server     string
		wantPrefix string
	}{
		{"with http prefix", "http://localhost:5090", "http://localhost:5090"},
		{"with https prefix", "https://localhost:5090", "https://localhost:5090"},
		{"without prefix", "localhost:5090", "http://localhost:5090"},
		{"trailing slash", "http://dash.local/", "http://dash.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewHTTPClient(tt.server, 0)
			if client.BaseURL() != tt.wantPrefix {
				t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), tt.wantPrefix)
			}
			if client.client.Timeout != DefaultTimeout {
				t.Errorf("Timeout = %v", client.client.Timeout)
			}
		})
	}
}

func TestHTTPClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %q, want GET", r.Method)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "hallwatch-cli/") {
			t.Errorf("User-Agent = %q", ua)
		}
		if r.URL.RequestURI() != "/events?limit=5" {
			t.Errorf("uri = %q", r.URL.RequestURI())
		}
		_, _ = w.Write([]byte(`{"code":"OK","data":{"count":0}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	resp, err := client.Get(context.Background(), "/events?limit=5")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	var out struct {
		Count int `json:"count"`
	}
	if err := ParseResponse(resp, &out); err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
}

func TestHTTPClient_Post(t *testing.T) {
	type body struct {
		CameraID string `json:"camera_id"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		var got body
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if got.CameraID != "cam1" {
			t.Errorf("camera_id = %q", got.CameraID)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"code":"OK","data":{"hall_id":"A","camera_id":"cam1"}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	resp, err := client.Post(context.Background(), "/cameras", body{CameraID: "cam1"})
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	var out struct {
		HallID string `json:"hall_id"`
	}
	if err := ParseResponse(resp, &out); err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if out.HallID != "A" {
		t.Errorf("hall_id = %q", out.HallID)
	}
}

func TestParseResponse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
	}{
		{"envelope error", http.StatusConflict, `{"code":"HW-CAM-4090","message":"camera already exists","request_id":"req-1"}`, "HW-CAM-4090"},
		{"plain text", http.StatusBadGateway, "bad gateway", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rec.WriteHeader(tt.status)
			_, _ = rec.WriteString(tt.body)

			err := ParseResponse(rec.Result(), nil)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.Status != tt.status || apiErr.Code != tt.wantCode {
				t.Errorf("apiErr = %+v", apiErr)
			}
		})
	}
}

func TestParseResponse_ServiceUnavailableKeepsData(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.WriteHeader(http.StatusServiceUnavailable)
	_, _ = rec.WriteString(`{"code":"OK","message":"Success","data":{"status":"starting"}}`)

	var out struct {
		Status string `json:"status"`
	}
	err := ParseResponse(rec.Result(), &out)
	if err == nil {
		t.Fatal("expected error for 503")
	}
	if out.Status != "starting" {
		t.Errorf("status = %q, want starting", out.Status)
	}
}

func TestParseResponse_Malformed(t *testing.T) {
	rec := httptest.NewRecorder()
	_, _ = rec.WriteString("not json")

	if err := ParseResponse(rec.Result(), nil); err == nil {
		t.Error("expected parse error")
	}
}
