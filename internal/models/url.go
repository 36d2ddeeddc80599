package models

import "time"

// ShortURL represents a shortened URL and its associated metadata.
type ShortURL struct {
	// ID is the unique identifier for the shortened URL record.
	ID string
	// LongURL is the original, full-length URL that the short code points to.
	LongURL string
	// ShortCode is the compact key associated with the original URL.
	ShortCode string
	// ShortURL is the full shortened address handed back to clients.
	ShortURL string
	// Clicks tracks the number of times the shortened URL has been resolved.
	Clicks int64
	// CreatedBy records the client address that created the mapping.
	CreatedBy string
	// CreatedAt is the timestamp indicating when the mapping was created.
	CreatedAt time.Time
	// ExpiresAt, when non-zero, marks the time after which the mapping no
	// longer resolves.
	ExpiresAt time.Time
	// IsActive is the soft-delete bit; inactive records never resolve.
	IsActive bool
}

// Expired reports whether the mapping has an expiry in the past.
func (u *ShortURL) Expired(now time.Time) bool {
	return !u.ExpiresAt.IsZero() && now.After(u.ExpiresAt)
}
