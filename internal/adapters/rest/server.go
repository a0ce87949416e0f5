package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/philly/chirp/internal/adapters/rest/middleware"
	"github.com/philly/chirp/internal/rpc"
)

// Server groups the API tier handlers and mounts them on a router.
type Server struct {
	Posts   *PostsRPCHandler
	Profile *ProfileRPCHandler
	Health  *HealthHandler
	JWT     *middleware.JWTMiddleware
	Auth    *middleware.AuthAdapter
}

// NewServer creates the API tier handler set
func NewServer(
	posts *PostsRPCHandler,
	profile *ProfileRPCHandler,
	health *HealthHandler,
	jwt *middleware.JWTMiddleware,
	authAdapter *middleware.AuthAdapter,
) *Server {
	return &Server{
		Posts:   posts,
		Profile: profile,
		Health:  health,
		JWT:     jwt,
		Auth:    authAdapter,
	}
}

// Routes mounts the RPC procedures and health probes on r.
// Queries are public; post.create requires a bearer token.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", s.Health.GetLiveness)
		r.Get("/ready", s.Health.GetReadiness)
	})

	r.Route(rpc.Prefix, func(r chi.Router) {
		r.Get(rpc.PathGetAll, s.Posts.GetAll)
		r.Get(rpc.PathGetByID, s.Posts.GetByID)
		r.Get(rpc.PathGetPostsByUserID, s.Posts.GetPostsByUserID)
		r.Get(rpc.PathGetUserByName, s.Profile.GetUserByUsername)

		r.With(s.JWT.Middleware, s.Auth.Middleware).
			Method(http.MethodPost, rpc.PathCreate, http.HandlerFunc(s.Posts.Create))
	})
}
