// Package transport merges the push subscription and the pull poller into
// one ordered stream of updates for the reconciler.
package transport
