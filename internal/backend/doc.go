// Package backend is the REST client of the people-counting analytics
// backend.
//
// The backend exposes:
//
//   - GET /count: counters of a single-hall deployment
//   - GET /halls: counters of every hall
//   - POST /add_camera, POST /remove_camera: camera registration
//
// Counter payloads come in two shapes, decoded by DecodeCounts:
//
//	{"entered":{"cam1":3},"exited":{"cam1":1},"inside":{"cam1":2}}
//	{"A":{"entered":{"cam1":3},"exited":{"cam1":1},"inside":{"cam1":2}}}
//
// The first is attributed to the default hall.
package backend
