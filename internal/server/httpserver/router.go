package httpserver

import (
	"net/http"

	"github.com/yndnr/hallwatch-go/internal/server/httpserver/handler"
	"github.com/yndnr/hallwatch-go/internal/telemetry/logger"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Handler serves the dashboard API.
	Handler *handler.Handler

	// Metrics serves /metrics. Nil disables the endpoint.
	Metrics http.Handler

	// Recorder receives per-request metrics. Optional.
	Recorder RequestRecorder

	// Logger for request logging.
	Logger logger.Logger

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = CORS off).
	CORSAllowedOrigins []string

	// RateLimit is the per-IP rate limit in requests/second (0 = off).
	RateLimit float64

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
//
// Order: Recover -> RequestID -> CORS -> RateLimit -> Metrics -> Audit -> Handler.
// /metrics skips rate limiting and audit.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}

	base := []Middleware{Recover(log), RequestID(), WithLogger(log)}

	api := append([]Middleware{}, base...)
	if len(cfg.CORSAllowedOrigins) > 0 {
		api = append(api, CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.RateLimit > 0 {
		api = append(api, RateLimit(cfg.RateLimit))
	}
	if cfg.Recorder != nil {
		api = append(api, Metrics(cfg.Recorder))
	}
	if cfg.EnableAudit {
		api = append(api, Audit(log))
	}

	mux := http.NewServeMux()
	mux.Handle("/", Chain(cfg.Handler, api...))

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics, base...))
	}

	return mux
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		EnableAudit: true,
	}
}
