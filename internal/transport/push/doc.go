// Package push implements the Socket.IO subscription to the backend's
// /video namespace.
//
// Only the subset of Engine.IO v4 and Socket.IO v5 the backend uses is
// supported: websocket transport, text packets, namespace join, events,
// acknowledgements and heartbeats. Binary attachments are rejected.
package push
