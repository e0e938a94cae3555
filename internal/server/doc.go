// Package server runs the HTTP transport and the background workers.
//
// It owns startup, signal handling and graceful shutdown: on SIGTERM,
// SIGINT or SIGQUIT open streams are cancelled, in-flight requests are
// drained and the workers are stopped.
package server
