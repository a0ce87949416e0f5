package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/philly/chirp/internal/adapters/auth"
	"github.com/philly/chirp/internal/adapters/auth/authtest"
	"github.com/philly/chirp/internal/adapters/rest"
	"github.com/philly/chirp/internal/adapters/rest/middleware"
	"github.com/philly/chirp/internal/platform/apperror"
	"github.com/philly/chirp/internal/platform/eventbus"
	"github.com/philly/chirp/internal/platform/logger"
	postsapp "github.com/philly/chirp/internal/posts/application"
	"github.com/philly/chirp/internal/posts/domain"
	postsports "github.com/philly/chirp/internal/posts/ports"
	"github.com/philly/chirp/internal/rpc"
	usersapp "github.com/philly/chirp/internal/users/application"
	userdomain "github.com/philly/chirp/internal/users/domain"
	usersports "github.com/philly/chirp/internal/users/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// store is an in-memory stand-in for both repositories.
type store struct {
	mu      sync.Mutex
	users   []*userdomain.User
	posts   []*domain.Post
	listErr error
}

func (s *store) Create(ctx context.Context, post *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, post)
	return nil
}

func (s *store) authorOf(id uuid.UUID) (postsports.Author, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return postsports.Author{ID: u.ID, Username: u.Username, ProfileImageURL: u.ProfileImageURL}, true
		}
	}
	return postsports.Author{}, false
}

func (s *store) FindByID(ctx context.Context, id uuid.UUID) (*postsports.PostWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID != id {
			continue
		}
		a, ok := s.authorOf(p.AuthorID)
		if !ok {
			return nil, postsports.ErrAuthorNotFound
		}
		return &postsports.PostWithAuthor{Post: *p, Author: a}, nil
	}
	return nil, postsports.ErrPostNotFound
}

func (s *store) list(keep func(*domain.Post) bool) ([]*postsports.PostWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []*postsports.PostWithAuthor{}
	for i := len(s.posts) - 1; i >= 0; i-- {
		p := s.posts[i]
		if !keep(p) {
			continue
		}
		a, ok := s.authorOf(p.AuthorID)
		if !ok {
			return nil, postsports.ErrAuthorNotFound
		}
		out = append(out, &postsports.PostWithAuthor{Post: *p, Author: a})
	}
	return out, nil
}

func (s *store) ListRecent(ctx context.Context, limit int) ([]*postsports.PostWithAuthor, error) {
	return s.list(func(*domain.Post) bool { return true })
}

func (s *store) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*postsports.PostWithAuthor, error) {
	return s.list(func(p *domain.Post) bool { return p.AuthorID == authorID })
}

type userStore struct{ s *store }

func (u userStore) Create(ctx context.Context, user *userdomain.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	u.s.users = append(u.s.users, user)
	return nil
}

func (u userStore) Update(ctx context.Context, user *userdomain.User) error { return nil }

func (u userStore) find(match func(*userdomain.User) bool) (*userdomain.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, usr := range u.s.users {
		if match(usr) {
			return usr, nil
		}
	}
	return nil, usersports.ErrUserNotFound
}

func (u userStore) FindByID(ctx context.Context, id uuid.UUID) (*userdomain.User, error) {
	return u.find(func(usr *userdomain.User) bool { return usr.ID == id })
}

func (u userStore) FindByExternalID(ctx context.Context, externalID string) (*userdomain.User, error) {
	return u.find(func(usr *userdomain.User) bool { return usr.ExternalID == externalID })
}

func (u userStore) FindByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	return u.find(func(usr *userdomain.User) bool { return usr.Username == username })
}

func (u userStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := u.FindByUsername(ctx, username)
	return err == nil, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type fixture struct {
	store  *store
	signer *authtest.Signer
	server *httptest.Server
	client *rpc.Client
}

func newFixture(t *testing.T, db rest.Pinger) *fixture {
	t.Helper()
	st := &store{}
	signer := authtest.NewSigner(t)
	log := logger.Nop{}

	users := usersapp.NewUserService(userStore{s: st}, log)
	posts := postsapp.NewPostsService(st, eventbus.NewBus(log), log)
	base := rest.NewBaseHandler(log)
	srv := rest.NewServer(
		rest.NewPostsRPCHandler(base, posts),
		rest.NewProfileRPCHandler(base, users),
		rest.NewHealthHandler(base, "test", db),
		middleware.NewJWTMiddleware(signer.Verifier(), log),
		middleware.NewAuthAdapter(users, log),
	)

	r := chi.NewRouter()
	srv.Routes(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return &fixture{
		store:  st,
		signer: signer,
		server: ts,
		client: rpc.NewClient(ts.URL, ts.Client()),
	}
}

func (f *fixture) actor(t *testing.T, identity auth.Identity) rpc.Actor {
	return rpc.Actor{Identity: identity, Token: f.signer.Token(t, identity, time.Hour)}
}

func TestRPCCreateAndQuery(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	actor := f.actor(t, auth.Identity{Subject: "user_2abc", Username: "philly", ImageURL: "https://img.example/p.png"})

	first, err := f.client.Create(ctx, actor, "🐣")
	require.NoError(t, err)
	second, err := f.client.Create(ctx, actor, "🐥 🐥")
	require.NoError(t, err)

	feed, err := f.client.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, second.ID, feed[0].Post.ID)
	assert.Equal(t, first.ID, feed[1].Post.ID)
	assert.Equal(t, "philly", feed[0].Author.Username)
	assert.Equal(t, "https://img.example/p.png", feed[0].Author.ProfileImageURL)

	one, err := f.client.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "🐣", one.Post.Content)

	byUser, err := f.client.GetPostsByUserID(ctx, first.AuthorID)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	author, err := f.client.GetUserByUsername(ctx, "@philly")
	require.NoError(t, err)
	assert.Equal(t, first.AuthorID, author.ID)
}

func TestRPCCreateValidationError(t *testing.T) {
	f := newFixture(t, nil)
	actor := f.actor(t, auth.Identity{Subject: "user_2abc", Username: "philly"})

	_, err := f.client.Create(context.Background(), actor, "hello")

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.Equal(t, apperror.BusinessCodeInvalidContent, appErr.BusinessCode)

	fields, ok := apperror.FieldErrorsOf(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Only emojis are allowed"}, fields["content"])
	assert.Empty(t, f.store.posts)
}

func TestRPCCreateRequiresToken(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.client.Create(context.Background(), rpc.Actor{}, "🐣")

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
	assert.Empty(t, f.store.posts)
}

func TestRPCCreateMalformedBody(t *testing.T) {
	f := newFixture(t, nil)
	token := f.signer.Token(t, auth.Identity{Subject: "user_2abc"}, time.Hour)

	req, err := http.NewRequest(http.MethodPost, f.server.URL+rpc.Prefix+rpc.PathCreate, strings.NewReader("{"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRPCQueryErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.client.GetByID(ctx, uuid.NewString())
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	assert.Equal(t, apperror.BusinessCodePostNotFound, appErr.BusinessCode)

	_, err = f.client.GetUserByUsername(ctx, "nobody")
	appErr, ok = apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)

	resp, err := f.server.Client().Get(f.server.URL + rpc.Prefix + rpc.PathGetByID + "?id=nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = f.server.Client().Get(f.server.URL + rpc.Prefix + rpc.PathGetByID)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRPCGetAllFailsOnMissingAuthor(t *testing.T) {
	f := newFixture(t, nil)
	f.store.posts = append(f.store.posts, &domain.Post{ID: uuid.New(), Content: "👻", AuthorID: uuid.New(), CreatedAt: time.Now()})

	_, err := f.client.GetAll(context.Background())

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.Equal(t, apperror.BusinessCodeAuthorNotFound, appErr.BusinessCode)
}

func TestRPCGetAllEmptyIsArray(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.server.Client().Get(f.server.URL + rpc.Prefix + rpc.PathGetAll)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body []any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, body)
	assert.Empty(t, body)
}

func TestHealthProbes(t *testing.T) {
	tests := []struct {
		name       string
		db         rest.Pinger
		wantStatus int
		wantBody   string
	}{
		{name: "no database", db: nil, wantStatus: http.StatusOK, wantBody: rest.StatusDegraded},
		{name: "database up", db: pinger{}, wantStatus: http.StatusOK, wantBody: rest.StatusHealthy},
		{name: "database down", db: pinger{err: errors.New("connection refused")}, wantStatus: http.StatusServiceUnavailable, wantBody: rest.StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.db)

			resp, err := f.server.Client().Get(f.server.URL + "/api/v1/health/ready")
			require.NoError(t, err)
			defer resp.Body.Close()

			var body rest.HealthStatus
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, body.Status)
			assert.Equal(t, "test", body.Version)
		})
	}

	f := newFixture(t, nil)
	resp, err := f.server.Client().Get(f.server.URL + "/api/v1/health/live")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
