package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

type userRepository struct {
	mu    sync.RWMutex
	users []models.User
	ids   *idSource
}

func newUserRepository(ids *idSource) *userRepository {
	return &userRepository{ids: ids}
}

func cloneUser(u *models.User) *models.User {
	out := *u
	out.Favorites = append([]models.Favorite(nil), u.Favorites...)
	return &out
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "database.memory.userRepository.Create"

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].Username == user.Username || (user.Email != "" && r.users[i].Email == user.Email) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserExists)
		}
	}

	rec := *cloneUser(user)
	rec.ID = r.ids.ID()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	r.users = append(r.users, rec)

	return cloneUser(&rec), nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	const op = "database.memory.userRepository.GetByID"

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if r.users[i].ID == id {
			return cloneUser(&r.users[i]), nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	const op = "database.memory.userRepository.GetByLogin"

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if r.users[i].Username == login || (login != "" && r.users[i].Email == login) {
			return cloneUser(&r.users[i]), nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const op = "database.memory.userRepository.UpdateLastLogin"

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].LastLogin = at
			return nil
		}
	}

	return fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
}

func (r *userRepository) AddFavorite(ctx context.Context, userID, toolID string, addedAt time.Time) ([]models.Favorite, error) {
	const op = "database.memory.userRepository.AddFavorite"

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID != userID {
			continue
		}

		for _, fav := range r.users[i].Favorites {
			if fav.ToolID == toolID {
				return nil, fmt.Errorf("%s: %w", op, database.ErrFavoriteExists)
			}
		}

		r.users[i].Favorites = append(r.users[i].Favorites, models.Favorite{
			ToolID:  toolID,
			AddedAt: addedAt,
		})

		return append([]models.Favorite(nil), r.users[i].Favorites...), nil
	}

	return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
}

func (r *userRepository) RemoveFavorite(ctx context.Context, userID, toolID string) ([]models.Favorite, error) {
	const op = "database.memory.userRepository.RemoveFavorite"

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID != userID {
			continue
		}

		kept := r.users[i].Favorites[:0]
		for _, fav := range r.users[i].Favorites {
			if fav.ToolID != toolID {
				kept = append(kept, fav)
			}
		}
		r.users[i].Favorites = kept

		return append([]models.Favorite(nil), kept...), nil
	}

	return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
}

func (r *userRepository) UpdatePreferences(ctx context.Context, userID string, prefs models.Preferences) (*models.User, error) {
	const op = "database.memory.userRepository.UpdatePreferences"

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == userID {
			r.users[i].Preferences = prefs
			return cloneUser(&r.users[i]), nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
}
