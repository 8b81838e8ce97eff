// Package main provides the entry point for hallwatch-server.
//
// hallwatch-server follows the people-counting analytics backend over its
// Socket.IO push feed and REST polling fallback, derives entered/exited
// events and serves the occupancy dashboard API.
package main
