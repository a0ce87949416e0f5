package rest

import (
	"encoding/json"
	"net/http"

	"github.com/oapi-codegen/runtime"
	postsapp "github.com/philly/chirp/internal/posts/application"
	"github.com/philly/chirp/internal/rpc"
	usersapp "github.com/philly/chirp/internal/users/application"
)

// PostsRPCHandler serves the post.* procedures.
type PostsRPCHandler struct {
	*BaseHandler
	service *postsapp.PostsService
}

// NewPostsRPCHandler creates a new posts handler
func NewPostsRPCHandler(base *BaseHandler, service *postsapp.PostsService) *PostsRPCHandler {
	return &PostsRPCHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetAll returns the whole feed, newest first.
func (h *PostsRPCHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.GetAll(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, rpc.FromPostsWithAuthor(posts), http.StatusOK)
}

// GetByID returns one post with its author.
func (h *PostsRPCHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.bindQuery(w, r, "id")
	if !ok {
		return
	}
	id, ok := h.ParseUUID(w, r, raw, "id")
	if !ok {
		return
	}

	post, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, rpc.FromPostWithAuthor(post), http.StatusOK)
}

// GetPostsByUserID returns one author's posts, newest first.
func (h *PostsRPCHandler) GetPostsByUserID(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.bindQuery(w, r, "userId")
	if !ok {
		return
	}
	userID, ok := h.ParseUUID(w, r, raw, "userId")
	if !ok {
		return
	}

	posts, err := h.service.GetByAuthor(r.Context(), userID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, rpc.FromPostsWithAuthor(posts), http.StatusOK)
}

// Create stores a post for the authenticated user.
// The route sits behind JWTMiddleware and AuthAdapter.
func (h *PostsRPCHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	var req rpc.CreatePostInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteJSONError(w, r, "invalid_request", "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.service.CreatePost(r.Context(), userID, req.Content)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, rpc.FromPost(post), http.StatusCreated)
}

// ProfileRPCHandler serves the profile.* procedures.
type ProfileRPCHandler struct {
	*BaseHandler
	service *usersapp.UserService
}

func NewProfileRPCHandler(base *BaseHandler, service *usersapp.UserService) *ProfileRPCHandler {
	return &ProfileRPCHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetUserByUsername returns the public profile for a handle.
func (h *ProfileRPCHandler) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username, ok := h.bindQuery(w, r, "username")
	if !ok {
		return
	}

	user, err := h.service.GetByUsername(r.Context(), username)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, rpc.FromUser(user), http.StatusOK)
}

// bindQuery reads a required form-style query parameter.
func (h *BaseHandler) bindQuery(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var value string
	if err := runtime.BindQueryParameter("form", true, true, name, r.URL.Query(), &value); err != nil {
		h.WriteJSONError(w, r, "invalid_request", "Invalid "+name, http.StatusBadRequest)
		return "", false
	}
	return value, true
}
