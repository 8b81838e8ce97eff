// Package logger provides structured logging for HallWatch.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, handler setup, dynamic level
//   - context.go: request-scoped loggers and request IDs
//   - redact.go: masking of credentials in camera links and secret fields
//
// The level is process-wide and can be changed at runtime with SetLevel,
// which the config watcher does when log.level changes on disk.
package logger
