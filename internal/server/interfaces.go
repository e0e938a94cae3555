package server

import "context"

// Server defines the lifecycle contract of the application server.
//
// RunServer blocks until a stop signal arrives and everything has shut
// down. Shutdown stops serving without waiting for a signal.
type Server interface {
	RunServer()
	Shutdown()
}

// Background is a set of jobs started with the server and stopped after it.
type Background interface {
	Run(ctx context.Context)
	Stop()
}
