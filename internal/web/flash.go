package web

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	flashSessionName = "chirp_flash"
	flashMaxAge      = 60
)

// Flashes stores one-shot toast messages in a signed cookie.
type Flashes struct {
	store sessions.Store
}

func NewFlashes(secret []byte, secure bool) *Flashes {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flashes{store: store}
}

// Add queues msg for the next page render.
func (f *Flashes) Add(w http.ResponseWriter, r *http.Request, msg string) error {
	session, err := f.store.Get(r, flashSessionName)
	if err != nil && session == nil {
		return err
	}
	session.AddFlash(msg)
	return session.Save(r, w)
}

// Pop returns and clears queued messages. A tampered cookie yields none.
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) []string {
	session, err := f.store.Get(r, flashSessionName)
	if err != nil || session == nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		return nil
	}

	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}
