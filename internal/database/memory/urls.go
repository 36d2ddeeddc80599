package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

type urlRepository struct {
	mu   sync.RWMutex
	urls []models.ShortURL
	ids  *idSource
}

func newURLRepository(ids *idSource) *urlRepository {
	return &urlRepository{ids: ids}
}

func (r *urlRepository) Create(ctx context.Context, url *models.ShortURL) (*models.ShortURL, error) {
	const op = "database.memory.urlRepository.Create"

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.urls {
		if r.urls[i].ShortCode == url.ShortCode && r.urls[i].IsActive {
			return nil, fmt.Errorf("%s: %w", op, database.ErrShortCodeExists)
		}
	}

	rec := *url
	rec.ID = r.ids.ID()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	r.urls = append(r.urls, rec)

	out := rec
	return &out, nil
}

func (r *urlRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.ShortURL, error) {
	const op = "database.memory.urlRepository.GetByShortCode"

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.urls {
		if r.urls[i].ShortCode == shortCode && r.urls[i].IsActive {
			u := r.urls[i]
			return &u, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
}

func (r *urlRepository) IncrementClicks(ctx context.Context, shortCode string) error {
	const op = "database.memory.urlRepository.IncrementClicks"

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.urls {
		if r.urls[i].ShortCode == shortCode && r.urls[i].IsActive {
			r.urls[i].Clicks++
			return nil
		}
	}

	return fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
}

func (r *urlRepository) Deactivate(ctx context.Context, shortCode string) error {
	const op = "database.memory.urlRepository.Deactivate"

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.urls {
		if r.urls[i].ShortCode == shortCode && r.urls[i].IsActive {
			r.urls[i].IsActive = false
			return nil
		}
	}

	return fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
}
