package http

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"
)

func (h *Handler) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("X-Frame-Options", "DENY")
		header.Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}

// withCORS allows browser clients from the configured origins to send the
// credential headers read by the request gate.
func (h *Handler) withCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: h.settings.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{
			authorizationHeader, sessionTokenHeader, userIDHeader, freshnessKey,
			"Accept", "Content-Type", traceIDHeader,
		},
		ExposedHeaders:   []string{traceIDHeader, "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}

// withCompression gzips responses for clients that accept it.
func withCompression(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
