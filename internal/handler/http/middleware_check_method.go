// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod is registered as the router's MethodNotAllowed handler.
// A path served under a different method is answered with the same JSON
// 404 body as an unknown path, so callers cannot map which routes exist.
//
// Matching goes through [chi.Mux.Match], so parameterised patterns such as
// /api/images/{id} are resolved the same way the router resolves them.
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			writeError(w, ErrRouteNotFound)
			return
		}

		router.ServeHTTP(w, r)
	}
}
