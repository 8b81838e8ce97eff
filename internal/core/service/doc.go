// Package service implements the HallWatch update pipeline.
//
// This package contains:
//
//   - Translator: derives entered/exited events from counter changes
//   - Project: pure view projection over store state
//   - AlertMonitor: capacity threshold crossings per hall
//   - Reconciler: the single goroutine owning the store and event log
//   - CameraRegistry: add/remove coordinated with the backend
//
// Storage and the backend are consumed through the interfaces declared
// here so the pipeline can be tested without network or real storage.
package service
