// Package handler provides HTTP request handlers for HallWatch.
//
// Every JSON response uses the envelope in types.go. Read endpoints serve
// the published view and the logs; camera endpoints go through the camera
// registry so the backend is called before any local change.
package handler
