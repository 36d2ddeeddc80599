package models

import "time"

// Favorite links a user to a tool they bookmarked.
type Favorite struct {
	ToolID  string
	AddedAt time.Time
}

// Preferences holds per-user display settings.
type Preferences struct {
	Theme    string
	Language string
}

// DefaultPreferences returns the settings applied to newly registered users.
func DefaultPreferences() Preferences {
	return Preferences{Theme: "light", Language: "en"}
}

// User represents a registered account.
type User struct {
	ID       string
	Username string
	Email    string
	// PasswordHash is the bcrypt hash of the user's password. It is never
	// serialized into API responses.
	PasswordHash string
	// Favorites contains no duplicate ToolID; duplicates are rejected at
	// insert time.
	Favorites   []Favorite
	Preferences Preferences
	CreatedAt   time.Time
	LastLogin   time.Time
}
