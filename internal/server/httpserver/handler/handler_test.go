package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
	"github.com/yndnr/hallwatch-go/internal/core/service"
	"github.com/yndnr/hallwatch-go/internal/storage/memory"
	"github.com/yndnr/hallwatch-go/internal/telemetry/logger"
)

type fakeBackend struct {
	mu   sync.Mutex
	adds []domain.CameraRegistration
	err  error
}

func (b *fakeBackend) AddCamera(_ context.Context, reg domain.CameraRegistration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adds = append(b.adds, reg)
	return b.err
}

func (b *fakeBackend) RemoveCamera(context.Context, string, string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// testEnv runs a real reconciler behind the handler.
type testEnv struct {
	h       *Handler
	r       *service.Reconciler
	events  *memory.EventLog
	alerts  *memory.AlertLog
	frames  *memory.FrameCache
	backend *fakeBackend
	updates chan domain.Update
	seq     uint64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		events:  memory.NewEventLog(),
		alerts:  memory.NewAlertLog(0),
		frames:  memory.NewFrameCache(),
		backend: &fakeBackend{},
		updates: make(chan domain.Update),
	}
	env.r = service.NewReconciler(memory.New(), env.events,
		service.WithLogger(logger.Discard()),
		service.WithAlerts(env.alerts, service.Capacities{PerHall: map[string]int64{"A": 3}}),
	)
	registry := service.NewCameraRegistry(env.backend, env.r,
		service.WithDefaultHall("A"),
		service.WithFrameDropper(env.frames),
		service.WithRegistryLogger(logger.Discard()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go env.r.Run(ctx, env.updates)
	t.Cleanup(func() {
		cancel()
		<-env.r.Done()
	})

	env.h = New(Deps{
		Views:    env.r,
		Events:   env.events,
		Alerts:   env.alerts,
		Registry: registry,
		Frames:   env.frames,
		Logger:   logger.Discard(),
	})
	return env
}

func (e *testEnv) full(t *testing.T, snap domain.Snapshot) {
	t.Helper()
	e.seq++
	e.updates <- domain.Update{Seq: e.seq, Source: domain.SourcePull, Kind: domain.KindFull, Snapshot: snap, ReceivedAt: time.Now()}
	if err := e.r.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func snapshot(hall, cam string, entered, exited, inside int64) domain.Snapshot {
	s := domain.Snapshot{}
	s.Set(hall, cam, domain.Full(entered, exited, inside))
	return s
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) Response {
	t.Helper()

	var raw struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return raw.Response
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(t, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("/health status = %d", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/ready", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("/ready before first fetch = %d, want 503", rec.Code)
	}
	var hr HealthResponse
	decode(t, rec, &hr)
	if hr.Status != "starting" {
		t.Errorf("status = %q, want starting", hr.Status)
	}

	env.full(t, snapshot("A", "cam1", 0, 0, 0))

	rec = env.do(t, http.MethodGet, "/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/ready after fetch = %d, want 200", rec.Code)
	}
	resp := decode(t, rec, &hr)
	if resp.Code != "OK" || hr.Status != "ready" {
		t.Errorf("response = %+v / %+v", resp, hr)
	}

	env.r.Close()
	if rec := env.do(t, http.MethodGet, "/health", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/health after close = %d, want 503", rec.Code)
	}
}

func TestListHalls(t *testing.T) {
	env := newTestEnv(t)
	env.full(t, snapshot("A", "cam1", 5, 1, 4))

	rec := env.do(t, http.MethodGet, "/halls", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var view domain.View
	decode(t, rec, &view)
	if view.TotalInside != 4 || len(view.Halls) != 1 {
		t.Fatalf("view = %+v", view)
	}
	if !view.Halls[0].OverCapacity || view.Halls[0].Capacity != 3 {
		t.Errorf("hall A = %+v, want over capacity 3", view.Halls[0])
	}
}

func TestGetHall(t *testing.T) {
	env := newTestEnv(t)
	env.full(t, snapshot("A", "cam1", 2, 0, 2))

	rec := env.do(t, http.MethodGet, "/halls/A", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var hall domain.HallView
	decode(t, rec, &hall)
	if hall.HallID != "A" || hall.Inside != 2 {
		t.Errorf("hall = %+v", hall)
	}

	rec = env.do(t, http.MethodGet, "/halls/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing hall status = %d, want 404", rec.Code)
	}
	if got := rec.Header().Get("X-Error-Code"); got != domain.ErrHallNotFound.Code {
		t.Errorf("X-Error-Code = %q", got)
	}
}

func TestListEvents(t *testing.T) {
	env := newTestEnv(t)
	env.full(t, snapshot("A", "cam1", 0, 0, 0))
	env.full(t, snapshot("A", "cam1", 3, 1, 2))

	tests := []struct {
		name   string
		query  string
		status int
		want   int
	}{
		{"all", "", http.StatusOK, 4},
		{"entered", "?kind=entered", http.StatusOK, 3},
		{"exited", "?kind=exited", http.StatusOK, 1},
		{"since", "?since=3", http.StatusOK, 1},
		{"limit", "?limit=2", http.StatusOK, 2},
		{"other camera", "?camera_id=cam9", http.StatusOK, 0},
		{"bad kind", "?kind=sideways", http.StatusBadRequest, 0},
		{"bad since", "?since=-1", http.StatusBadRequest, 0},
		{"bad limit", "?limit=0", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/events"+tt.query, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			var out ListEventsResponse
			decode(t, rec, &out)
			if out.Count != tt.want || len(out.Items) != tt.want {
				t.Errorf("count = %d, items = %d, want %d", out.Count, len(out.Items), tt.want)
			}
			if out.LastSequence != 4 {
				t.Errorf("last_sequence = %d, want 4", out.LastSequence)
			}
		})
	}
}

func TestListEvents_LimitKeepsNewest(t *testing.T) {
	env := newTestEnv(t)
	env.full(t, snapshot("A", "cam1", 0, 0, 0))
	env.full(t, snapshot("A", "cam1", 3, 0, 3))

	var out ListEventsResponse
	decode(t, env.do(t, http.MethodGet, "/events?limit=1", nil), &out)
	if len(out.Items) != 1 || out.Items[0].Sequence != 3 {
		t.Fatalf("items = %+v, want sequence 3", out.Items)
	}
}

func TestListAlerts(t *testing.T) {
	env := newTestEnv(t)
	env.full(t, snapshot("A", "cam1", 0, 0, 0))
	env.full(t, snapshot("A", "cam1", 5, 0, 5))

	var out ListAlertsResponse
	decode(t, env.do(t, http.MethodGet, "/alerts", nil), &out)
	if out.Count != 1 || out.Items[0].Kind != domain.AlertOverCapacity {
		t.Fatalf("alerts = %+v", out)
	}

	decode(t, env.do(t, http.MethodGet, "/alerts?hall_id=B", nil), &out)
	if out.Count != 0 || out.Items == nil {
		t.Errorf("hall B alerts = %+v, want empty list", out)
	}
}

func TestAddCamera(t *testing.T) {
	env := newTestEnv(t)
	env.full(t, snapshot("A", "cam1", 0, 0, 0))

	rec := env.do(t, http.MethodPost, "/cameras", AddCameraRequest{CameraID: "cam2", CameraLink: "rtsp://10.0.0.2/stream"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var out CameraResponse
	decode(t, rec, &out)
	if out.HallID != "A" || out.CameraID != "cam2" {
		t.Errorf("response = %+v", out)
	}
	if hall, _ := env.r.View().Hall("A"); len(hall.Cameras) != 2 {
		t.Errorf("hall A cameras = %+v", hall.Cameras)
	}

	rec = env.do(t, http.MethodPost, "/cameras", AddCameraRequest{CameraID: "cam2", CameraLink: "rtsp://10.0.0.2/stream"})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}
}

func TestAddCamera_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		backendErr error
		status     int
	}{
		{"malformed", `{"camera_id":`, nil, http.StatusBadRequest},
		{"unknown field", `{"camera_id":"c","camera_link":"rtsp://h/s","zone":1}`, nil, http.StatusBadRequest},
		{"invalid id", `{"camera_id":"","camera_link":"rtsp://h/s"}`, nil, http.StatusBadRequest},
		{"backend rejected", `{"camera_id":"c","camera_link":"rtsp://h/s"}`, domain.ErrRemoteRejected, http.StatusBadGateway},
		{"backend down", `{"camera_id":"c","camera_link":"rtsp://h/s"}`, domain.ErrRemoteUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.backend.err = tt.backendErr

			req := httptest.NewRequest(http.MethodPost, "/cameras", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			env.h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if resp := decode(t, rec, nil); resp.Code == "OK" {
				t.Errorf("code = OK on failure")
			}
			if env.r.View().Cameras != 0 {
				t.Errorf("camera committed despite failure")
			}
		})
	}
}

func TestRemoveCamera(t *testing.T) {
	env := newTestEnv(t)
	env.full(t, snapshot("A", "cam1", 0, 0, 0))
	env.frames.Put(domain.Frame{CameraID: "cam1", Data: []byte{0xff, 0xd8}, ReceivedAt: time.Now()})

	rec := env.do(t, http.MethodPost, "/cameras/remove", RemoveCameraRequest{CameraID: "cam1", HallID: "A"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if env.r.View().Cameras != 0 {
		t.Errorf("camera still present")
	}
	if _, ok := env.frames.Get("cam1"); ok {
		t.Errorf("frame not dropped")
	}

	rec = env.do(t, http.MethodPost, "/cameras/remove", RemoveCameraRequest{CameraID: "cam1", HallID: "A"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("second remove status = %d, want 404", rec.Code)
	}
}

func TestGetFrame(t *testing.T) {
	env := newTestEnv(t)
	jpeg := []byte{0xff, 0xd8, 0xff, 0xd9}
	env.frames.Put(domain.Frame{CameraID: "cam1", Data: jpeg, ReceivedAt: time.Now()})

	rec := env.do(t, http.MethodGet, "/frames/cam1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), jpeg) {
		t.Errorf("body = %x", rec.Body.Bytes())
	}

	if rec := env.do(t, http.MethodGet, "/frames/cam9", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing frame status = %d, want 404", rec.Code)
	}
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.ErrCameraNotFound.Code, http.StatusNotFound},
		{domain.ErrHallNotFound.Code, http.StatusNotFound},
		{domain.ErrCameraConflict.Code, http.StatusConflict},
		{domain.ErrCameraValidation.Code, http.StatusBadRequest},
		{domain.ErrInvalidArgument.Code, http.StatusBadRequest},
		{domain.ErrBadRequest.Code, http.StatusBadRequest},
		{domain.ErrRemoteRejected.Code, http.StatusBadGateway},
		{domain.ErrRemoteUnavailable.Code, http.StatusServiceUnavailable},
		{domain.ErrDashboardClosed.Code, http.StatusServiceUnavailable},
		{domain.ErrNotReady.Code, http.StatusServiceUnavailable},
		{domain.ErrInternal.Code, http.StatusInternalServerError},
		{"HW-XYZ-9999", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := errorCodeToHTTPStatus(tt.code); got != tt.want {
				t.Errorf("errorCodeToHTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.do(t, http.MethodGet, "/tokens", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, "/halls", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
