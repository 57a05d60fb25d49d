package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with conservative timeouts. Handlers stream
// nothing large, so the write timeout stays short.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
