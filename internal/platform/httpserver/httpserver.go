package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with defaults sized for the gateway: each request
// may carry a base64 image and fan out to one remote inquiry, so the write
// timeout leaves headroom over the inquiry client's own timeout.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}
