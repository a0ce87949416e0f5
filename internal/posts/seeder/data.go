package seeder

import "time"

// DemoUser is an author to be seeded
type DemoUser struct {
	ExternalID      string
	Username        string
	ProfileImageURL string
}

// DemoPost is a post to be seeded, Age before the time of seeding
type DemoPost struct {
	Key     string
	Author  string // DemoUser.Username
	Content string
	Age     time.Duration
}

// DemoUsers defines the seeded authors
var DemoUsers = []DemoUser{
	{ExternalID: "seed_ada", Username: "ada", ProfileImageURL: "https://api.dicebear.com/9.x/thumbs/png?seed=ada"},
	{ExternalID: "seed_grace", Username: "grace", ProfileImageURL: "https://api.dicebear.com/9.x/thumbs/png?seed=grace"},
	{ExternalID: "seed_linus", Username: "linus", ProfileImageURL: "https://api.dicebear.com/9.x/thumbs/png?seed=linus"},
}

// DemoPosts defines the seeded feed
var DemoPosts = []DemoPost{
	{Key: "ada-1", Author: "ada", Content: "☕️💻🐛", Age: 3 * 24 * time.Hour},
	{Key: "grace-1", Author: "grace", Content: "🐛🔦", Age: 2 * 24 * time.Hour},
	{Key: "linus-1", Author: "linus", Content: "🐧🚀", Age: 26 * time.Hour},
	{Key: "ada-2", Author: "ada", Content: "🌧️ 📚 🍵", Age: 5 * time.Hour},
	{Key: "grace-2", Author: "grace", Content: "⚓️🇺🇸", Age: 45 * time.Minute},
	{Key: "linus-2", Author: "linus", Content: "👍🎉", Age: 3 * time.Minute},
}
