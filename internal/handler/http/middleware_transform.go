package http

import (
	"bytes"
	"net/http"
	"strings"
)

// ResponseTransformer rewrites a complete JSON response body.
type ResponseTransformer func(body []byte) []byte

// StorageURLRewriter replaces every blob store URL under publicBaseURL with
// the same path under proxyPrefix, so clients fetch images through the API.
func StorageURLRewriter(publicBaseURL, proxyPrefix string) ResponseTransformer {
	from := []byte(strings.TrimRight(publicBaseURL, "/") + "/")
	to := []byte(strings.TrimRight(proxyPrefix, "/") + "/")

	return func(body []byte) []byte {
		return bytes.ReplaceAll(body, from, to)
	}
}

// withResponseTransform passes JSON bodies through transform. Other content
// types are streamed untouched.
func withResponseTransform(transform ResponseTransformer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &transformWriter{ResponseWriter: w}
			next.ServeHTTP(tw, r)
			tw.flush(transform)
		})
	}
}

// transformWriter buffers the body once the handler declared an
// application/json response.
type transformWriter struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
	buffering   bool
	buf         bytes.Buffer
}

func (w *transformWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = statusCode

	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		w.buffering = true
		return
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *transformWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.buffering {
		return w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *transformWriter) flush(transform ResponseTransformer) {
	if !w.buffering {
		return
	}

	body := transform(w.buf.Bytes())
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(w.status)
	_, _ = w.ResponseWriter.Write(body)
}
