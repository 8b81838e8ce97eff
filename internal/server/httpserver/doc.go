// Package httpserver provides the HTTP server for the HallWatch dashboard API.
//
// This package implements the dashboard API using stdlib net/http:
//
//   - Hall endpoints: /halls, /halls/{hall_id}
//   - Log endpoints: /events, /alerts
//   - Camera endpoints: /cameras, /cameras/remove
//   - Frame endpoint: /frames/{camera_id}
//   - Health endpoints: /health, /ready, /metrics
//
// Every request passes through Recover, RequestID, optional CORS, optional
// per-client rate limiting, metrics and audit logging.
package httpserver
