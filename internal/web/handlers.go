package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/philly/chirp/internal/platform/apperror"
	"github.com/philly/chirp/internal/rpc"
	"github.com/philly/chirp/internal/web/composer"
	"github.com/philly/chirp/internal/web/feed"
	"github.com/philly/chirp/internal/web/view"
	"golang.org/x/sync/errgroup"
)

// Routes mounts the pages on r.
func (a *App) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(SecurityHeaders)

		r.Get("/", a.Home)
		r.Get("/feed", a.Feed)
		r.Post("/compose", a.Compose)
		r.Post("/sign-out", a.SignOut)
		r.Get("/post/{id}", a.PostPage)
		r.Get("/@{username}", a.ProfilePage)
	})

	r.Get("/live", a.hub.ServeHTTP)
	r.Get("/favicon.ico", a.Favicon)
	r.Handle("/static/*", http.StripPrefix("/static/", staticFiles()))
}

// Home renders the page shell. Session and feed are resolved concurrently.
func (a *App) Home(w http.ResponseWriter, r *http.Request) {
	var (
		sess Session
		snap feed.Snapshot
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		sess = a.sessions.Resolve(r)
		return nil
	})
	g.Go(func() error {
		snap = a.loadFeed(ctx)
		return nil
	})
	_ = g.Wait()

	data := a.page(w, r, sess)
	if !sess.IsLoaded {
		a.render(w, r, http.StatusOK, pageIndex, "layout", data)
		return
	}

	if sess.IsSignedIn {
		c := a.composers.Acquire(sess.Actor())
		data.Composer = &composerView{
			AvatarURL:     sess.User.ProfileImageURL,
			Draft:         c.Draft(),
			Submitting:    c.Submitting(),
			SubmitVisible: c.SubmitVisible(),
		}
	}
	data.Feed = a.feedView(snap)

	a.render(w, r, http.StatusOK, pageIndex, "layout", data)
}

// Feed renders only the feed section, for live reloads.
func (a *App) Feed(w http.ResponseWriter, r *http.Request) {
	snap := a.loadFeed(r.Context())
	a.render(w, r, http.StatusOK, pageIndex, "feed", a.feedView(snap))
}

// Compose applies the posted draft and submits it, by click or by commit key.
// Outcomes are reported through toasts on the redirected page.
func (a *App) Compose(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.Resolve(r)
	if !sess.IsSignedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	c := a.composers.Acquire(sess.Actor())
	c.Input(r.PostFormValue("content"))

	// The mutation outlives the request like a browser fetch would.
	ctx := context.WithoutCancel(r.Context())

	var (
		res composer.Result
		err error
	)
	if key := r.PostFormValue("key"); key != "" {
		_, res, err = c.KeyDown(ctx, key)
	} else {
		res, err = c.Click(ctx)
	}

	switch {
	case err == nil:
	case errors.Is(err, composer.ErrSubmitInFlight), errors.Is(err, composer.ErrEmptyDraft):
		a.logger.Debug(r.Context(), "submission ignored", "reason", err)
	default:
		if ferr := a.flashes.Add(w, r, res.Toast); ferr != nil {
			a.logger.Error(r.Context(), "failed to store toast", "error", ferr)
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignOut clears the session cookie and discards the user's draft.
func (a *App) SignOut(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.Resolve(r)
	if sess.User != nil {
		a.composers.Release(sess.User.ID)
	}
	ClearSession(w, a.cfg.SecureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// PostPage renders a single post.
func (a *App) PostPage(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.Resolve(r)
	data := a.page(w, r, sess)
	if !sess.IsLoaded {
		a.render(w, r, http.StatusOK, pagePost, "layout", data)
		return
	}

	item, err := a.api.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.renderError(w, r, data, err)
		return
	}
	p := view.NewPost(item, a.now())
	data.Post = &p
	data.Title = "@" + item.Author.Username + " · " + pageTitle

	a.render(w, r, http.StatusOK, pagePost, "layout", data)
}

// ProfilePage renders an author and their posts.
func (a *App) ProfilePage(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.Resolve(r)
	data := a.page(w, r, sess)
	if !sess.IsLoaded {
		a.render(w, r, http.StatusOK, pageProfile, "layout", data)
		return
	}

	author, err := a.api.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		a.renderError(w, r, data, err)
		return
	}
	header := view.NewAuthor(author)
	data.Author = &header
	data.Title = "@" + author.Username + " · " + pageTitle

	posts, err := a.api.GetPostsByUserID(r.Context(), author.ID)
	if err != nil {
		a.logger.Error(r.Context(), "profile feed failed", "error", err, "username", author.Username)
		data.Feed = feedView{State: feed.StateErrored, Failed: true}
	} else {
		data.Feed = feedView{State: feed.StateLoaded, Posts: view.NewPosts(posts, a.now())}
	}

	a.render(w, r, http.StatusOK, pageProfile, "layout", data)
}

// Favicon serves the emoji icon.
func (a *App) Favicon(w http.ResponseWriter, r *http.Request) {
	icon, err := staticFS.ReadFile("static/favicon.svg")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(icon)
}

// loadFeed waits up to FeedRenderWait; past that the page renders the
// loading placeholder and the browser fetches the fragment.
func (a *App) loadFeed(ctx context.Context) feed.Snapshot {
	if a.cfg.FeedRenderWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.FeedRenderWait)
		defer cancel()
	}
	snap, err := a.feed.Load(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		a.logger.Warn(ctx, "feed load failed", "error", err)
	}
	return snap
}

func (a *App) feedView(snap feed.Snapshot) feedView {
	return newFeedView(snap, view.NewPosts(snap.Posts, a.now()))
}

func (a *App) page(w http.ResponseWriter, r *http.Request, sess Session) pageData {
	data := pageData{
		Title:       pageTitle,
		Description: pageDescription,
		Session:     sess,
		SignInURL:   a.cfg.SignInURL,
	}
	if sess.IsLoaded {
		data.Toasts = a.flashes.Pop(w, r)
	}
	return data
}

func (a *App) renderError(w http.ResponseWriter, r *http.Request, data pageData, err error) {
	status := http.StatusInternalServerError
	data.Message = "Something went wrong"
	if appErr, ok := apperror.As(err); ok && appErr.HTTPStatus > 0 && appErr.HTTPStatus < http.StatusInternalServerError {
		status = appErr.HTTPStatus
		if status == http.StatusNotFound || errors.Is(err, rpc.ErrInvalidID) {
			status = http.StatusNotFound
			data.Message = "Not found"
		}
	}
	if status >= http.StatusInternalServerError {
		a.logger.Error(r.Context(), "page failed", "error", err, "path", r.URL.Path)
	}
	a.render(w, r, status, pageError, "layout", data)
}

func (a *App) render(w http.ResponseWriter, r *http.Request, status int, page, tmpl string, data any) {
	if err := a.pages.render(w, status, page, tmpl, data); err != nil {
		a.logger.Error(r.Context(), "failed to render page", "error", err, "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
