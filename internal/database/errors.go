package database

import "errors"

var (
	// ErrToolNotFound is returned when a tool lookup resolves no record.
	ErrToolNotFound = errors.New("tool not found")
	// ErrURLNotFound is returned when a short code resolves no active record.
	ErrURLNotFound = errors.New("short url not found")
	// ErrUserNotFound is returned when a user lookup resolves no record.
	ErrUserNotFound = errors.New("user not found")
	// ErrShortCodeExists is returned when an attempt is made to create
	// a new shortened URL with a short code that already exists.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrUserExists is returned when registration collides with an
	// existing username or email.
	ErrUserExists = errors.New("user exists")
	// ErrFavoriteExists is returned when a tool is already in the user's
	// favorites.
	ErrFavoriteExists = errors.New("favorite exists")
	// ErrInvalidID is returned when an identifier cannot be interpreted
	// as a key by the active backend. The in-memory backend treats any
	// string as a valid key and never returns it.
	ErrInvalidID = errors.New("invalid identifier")
)
