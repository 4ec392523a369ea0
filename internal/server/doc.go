// Package server runs the HTTP server and the background workers.
//
// It owns their lifecycle: startup, signal handling, and graceful shutdown
// that drains in-flight requests before the workers are stopped.
package server
