// Package connection provides the HTTP client hallwatch-cli uses to talk
// to the dashboard API.
//
// Responses use the dashboard envelope; ParseResponse unwraps the data
// field and turns failures into *APIError values.
package connection
