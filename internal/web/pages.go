package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/philly/chirp/internal/web/feed"
	"github.com/philly/chirp/internal/web/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Document metadata.
const (
	pageTitle       = "Chirp"
	pageDescription = "💭"
)

// Page template names.
const (
	pageIndex   = "index"
	pagePost    = "post"
	pageProfile = "profile"
	pageError   = "error"
)

type composerView struct {
	AvatarURL     string
	Draft         string
	Submitting    bool
	SubmitVisible bool
}

type feedView struct {
	State   feed.State
	Loading bool
	Failed  bool
	Posts   []view.Post
}

type pageData struct {
	Title       string
	Description string
	Session     Session
	SignInURL   string
	Toasts      []string

	Composer *composerView
	Feed     feedView
	Post     *view.Post
	Author   *view.Author
	Message  string
}

// pages holds one template set per page; each shares the layout and partials.
type pages struct {
	sets map[string]*template.Template
}

func parsePages() (*pages, error) {
	p := &pages{sets: make(map[string]*template.Template)}
	for _, name := range []string{pageIndex, pagePost, pageProfile, pageError} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		p.sets[name] = t
	}
	return p, nil
}

// render executes into a buffer first so a template error never leaves a
// half-written page.
func (p *pages) render(w http.ResponseWriter, status int, page, tmpl string, data any) error {
	t, ok := p.sets[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return fmt.Errorf("render %s/%s: %w", page, tmpl, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func staticFiles() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}

func newFeedView(snap feed.Snapshot, posts []view.Post) feedView {
	v := feedView{State: snap.State}
	switch {
	case snap.State == feed.StateLoading:
		v.Loading = true
	case snap.Empty():
		v.Failed = true
	default:
		v.Posts = posts
	}
	return v
}
