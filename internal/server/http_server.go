// Package server constructs and starts the Signald HTTP service with helpers
// that apply sensible production defaults.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// CreateServer creates and configures an HTTP server with the specified port and handler.
// It sets reasonable timeout values for production use.
func CreateServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:        port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
}

// StartServer starts the HTTP server and begins listening for connections.
// It returns an error if the server fails to start.
func StartServer(server *http.Server) error {
	fmt.Printf("Server listening on port %s\n", server.Addr)
	return server.ListenAndServe()
}

// ShutdownServer gracefully shuts down the HTTP server, then drains the
// registry, closing every joined connection so each relay loop leaves its
// room through the normal path. Shutdown runs first so no new WebSocket can
// be accepted after the drain; hijacked connections are invisible to
// http.Server.Shutdown, which is why the drain happens at all.
func ShutdownServer(server *http.Server, registry *Registry, timeout time.Duration) error {
	log.Println("Shutting down HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	registry.Drain()

	if err != nil {
		return err
	}
	log.Println("HTTP server shutdown completed")
	return nil
}
