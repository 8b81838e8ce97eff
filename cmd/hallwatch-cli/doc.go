// Package main provides the entry point for hallwatch-cli.
//
// hallwatch-cli queries and manages a running HallWatch dashboard over
// its HTTP API.
package main
