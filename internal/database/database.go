// Package database defines the storage contracts shared by the real
// document-store backend and the in-process fallback. The two backends are
// behaviorally indistinguishable to callers for every operation listed here.
package database

import (
	"context"
	"time"

	"github.com/wangfeiwest163/toolshub/internal/models"
)

// ToolFilter narrows catalog queries. Search matches case-insensitive
// substrings of either the name or the description.
type ToolFilter struct {
	Category   string
	Search     string
	ActiveOnly bool
}

// Page bounds a list query. A non-positive Limit means no limit.
type Page struct {
	Offset int
	Limit  int
}

// EventFilter narrows analytics queries. Zero fields are ignored. From is
// inclusive, To is exclusive.
type EventFilter struct {
	From      time.Time
	To        time.Time
	EventType string
	ToolID    string
}

// ToolUsage is one row of a per-tool event aggregation.
type ToolUsage struct {
	ToolID string
	Count  int64
}

// ToolRepository gives access to the seeded tool catalog. Results of List
// are always ordered by descending popularity.
type ToolRepository interface {
	List(ctx context.Context, filter ToolFilter, page Page) ([]models.Tool, error)
	Count(ctx context.Context, filter ToolFilter) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Tool, error)
	// IncrementPopularity atomically adds delta to the tool's popularity
	// counter and returns the updated record.
	IncrementPopularity(ctx context.Context, id string, delta int64) (*models.Tool, error)
}

// URLRepository stores short code to long URL mappings.
type URLRepository interface {
	// Create inserts the mapping, assigning an id. It returns
	// ErrShortCodeExists when the code is already held by an active record.
	Create(ctx context.Context, url *models.ShortURL) (*models.ShortURL, error)
	// GetByShortCode retrieves an active record by code.
	GetByShortCode(ctx context.Context, shortCode string) (*models.ShortURL, error)
	// IncrementClicks atomically adds one to the click counter.
	IncrementClicks(ctx context.Context, shortCode string) error
	// Deactivate clears the active bit; the record stops resolving.
	Deactivate(ctx context.Context, shortCode string) error
}

// UserRepository stores registered accounts.
type UserRepository interface {
	// Create inserts the user, assigning an id. It returns ErrUserExists
	// when the username or email is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByLogin matches the login against usernames and emails.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	// AddFavorite appends the tool to the user's favorites and returns the
	// updated list. A duplicate tool id yields ErrFavoriteExists.
	AddFavorite(ctx context.Context, userID, toolID string, addedAt time.Time) ([]models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, toolID string) ([]models.Favorite, error)
	UpdatePreferences(ctx context.Context, userID string, prefs models.Preferences) (*models.User, error)
}

// EventRepository stores the append-only analytics log. CountByDay and
// CountByMonth return sparse maps keyed by "2006-01-02" and "2006-01"
// respectively; callers lay the counts onto fixed windows.
type EventRepository interface {
	Insert(ctx context.Context, event *models.Event) (*models.Event, error)
	Count(ctx context.Context, filter EventFilter) (int64, error)
	DistinctIPs(ctx context.Context, filter EventFilter) ([]string, error)
	CountByDay(ctx context.Context, filter EventFilter) (map[string]int64, error)
	CountByMonth(ctx context.Context, filter EventFilter) (map[string]int64, error)
	CountByTool(ctx context.Context, eventType string, limit int) ([]ToolUsage, error)
}

// Store aggregates the four collection repositories behind one handle.
type Store struct {
	Tools  ToolRepository
	URLs   URLRepository
	Users  UserRepository
	Events EventRepository

	// Fallback reports whether the store runs on in-process collections
	// instead of a live database connection. It is consulted for startup
	// logging and health reporting only.
	Fallback bool

	closeFn func(context.Context) error
}

// NewStore assembles a store handle. closeFn may be nil.
func NewStore(tools ToolRepository, urls URLRepository, users UserRepository, events EventRepository, fallback bool, closeFn func(context.Context) error) *Store {
	return &Store{
		Tools:    tools,
		URLs:     urls,
		Users:    users,
		Events:   events,
		Fallback: fallback,
		closeFn:  closeFn,
	}
}

// Close releases the underlying connection, if any.
func (s *Store) Close(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}
