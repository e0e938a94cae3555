// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as authentication, request tracing, access
// logging and response compression are handled in this package before
// requests are delegated to the live session of the signed-in user.
//
// Mutations that need the user's answer (a confirmation or the current
// password) read it from the X-Confirm and X-Credential headers. When the
// answer is missing the handler responds with 428 Precondition Required and
// the question, and the client retries with the header set.
package http
