// Package output provides output formatting for hallwatch-cli.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned tables for human output
//   - json.go, yaml.go: machine-readable output
//   - spinner.go: progress animation while waiting on the backend
package output
