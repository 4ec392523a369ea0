package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const rawImagesPrefix = "/api/images/raw"

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Recoverer)
	router.Use(h.withSecurityHeaders)
	router.Use(h.withCORS)
	router.Use(withCompression)
	router.Use(h.withThrottle)
	if h.transform != nil {
		router.Use(withResponseTransform(h.transform))
	}

	// routes public by construction
	router.Group(func(r chi.Router) {
		r.Use(h.open)
		r.Get("/api/version", h.getServerVersion)

		r.Group(func(r chi.Router) {
			r.Use(h.withCredentialBurst)
			r.Post("/api/auth/signup", h.signUp)
			r.Post("/api/auth/login", h.login)
			r.Get("/api/auth/oauth/{provider}/start", h.oauthStart)
		})
	})

	// reached through the identity provider redirect, protected by the
	// state cookie
	router.With(h.withCredentialBurst).Get("/api/auth/oauth/{provider}/callback", h.oauthCallback)

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.guard)
		r.Post("/api/auth/logout", h.logout)
		r.Get("/api/auth/logins", h.listLogins)
		r.Get("/api/images", h.listImages)
		r.Post("/api/images", h.uploadImage)
		r.Delete("/api/images/{id}", h.deleteImage)
		r.Get(rawImagesPrefix+"/*", h.rawImage)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, ErrRouteNotFound)
	})
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
