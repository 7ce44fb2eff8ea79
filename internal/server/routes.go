// Package server wires HTTP handlers into a ServeMux for the Signald
// application via routing helpers.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// SetupRoutes configures and returns the HTTP handler with all application
// routes: the test page, the WebSocket endpoint, health, and Prometheus
// metrics. The mux is wrapped with CORS using the configured origin list so
// browser clients on other origins can reach the HTTP surface.
func SetupRoutes(registry *Registry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", IndexHandler)
	mux.Handle("/ws", WebSocketHandler(registry))
	mux.HandleFunc("/healthz", HealthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: currentOriginPolicy().corsOrigins(),
		AllowedMethods: []string{http.MethodGet},
	})
	return c.Handler(mux)
}
