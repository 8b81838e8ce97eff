// Package shutdown provides graceful shutdown for HallWatch.
//
// A Handler waits for SIGINT, SIGTERM or a programmatic Trigger, then runs
// the registered hooks in reverse order of registration under a shared
// timeout.
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown("http", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
