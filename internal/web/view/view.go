// Package view turns RPC results into template-ready values.
package view

import (
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/philly/chirp/internal/rpc"
	"github.com/samber/lo"
)

// RelTime formats then relative to now, e.g. "3 minutes ago".
func RelTime(then, now time.Time) string {
	return humanize.RelTime(then, now, "ago", "from now")
}

// Post is one rendered feed entry.
type Post struct {
	ID         string
	Content    string
	Username   string
	AvatarURL  string
	AvatarAlt  string
	Age        string
	PostURL    string
	ProfileURL string
}

// Author is a rendered profile header.
type Author struct {
	Username   string
	AvatarURL  string
	AvatarAlt  string
	ProfileURL string
}

func NewAuthor(a rpc.Author) Author {
	return Author{
		Username:   a.Username,
		AvatarURL:  a.ProfileImageURL,
		AvatarAlt:  "@" + a.Username + "'s profile picture",
		ProfileURL: ProfilePath(a.Username),
	}
}

func NewPost(item rpc.PostWithAuthor, now time.Time) Post {
	author := NewAuthor(item.Author)
	return Post{
		ID:         item.Post.ID,
		Content:    item.Post.Content,
		Username:   author.Username,
		AvatarURL:  author.AvatarURL,
		AvatarAlt:  author.AvatarAlt,
		Age:        RelTime(item.Post.CreatedAt, now),
		PostURL:    PostPath(item.Post.ID),
		ProfileURL: author.ProfileURL,
	}
}

// NewPosts keeps the service's order; nothing is added, dropped or sorted.
func NewPosts(items []rpc.PostWithAuthor, now time.Time) []Post {
	return lo.Map(items, func(item rpc.PostWithAuthor, _ int) Post {
		return NewPost(item, now)
	})
}

func PostPath(id string) string {
	return "/post/" + url.PathEscape(id)
}

func ProfilePath(username string) string {
	return "/@" + url.PathEscape(username)
}
