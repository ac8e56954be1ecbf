package http

import (
	"net/http"

	"github.com/atinyakov/ownerhub/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler of the identity stub.
//
// Routes:
//
//	POST /api/owners/register  → authHandler.Register
//	GET  /api/owners/me        → authHandler.Me (protected by TokenAuth)
//
// Every request is logged; registration only accepts JSON bodies.
func NewRouter(
	authHandler *AuthHandler,
	tokens middleware.TokenResolver,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api/owners", func(r chi.Router) {
		r.With(chiMiddleware.AllowContentType("application/json")).
			Post("/register", authHandler.Register)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.TokenAuth(tokens))
			r.Get("/me", authHandler.Me)
		})
	})

	return r
}
