// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. The request gate (throttling, freshness tokens and credential checks)
// runs here before requests are delegated to the service layer, together with
// tracing, access logging, CORS, compression and response rewriting.
package http
