package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

func testTools() []models.Tool {
	now := time.Now()

	return []models.Tool{
		{ID: "1", Name: "Password Generator", Description: "Generate secure passwords", Category: models.CategoryUtility, Popularity: 120, IsActive: true, CreatedAt: now},
		{ID: "2", Name: "JSON Formatter", Description: "Format and validate JSON", Category: models.CategoryDeveloper, Popularity: 95, IsActive: true, CreatedAt: now},
		{ID: "3", Name: "Word Counter", Description: "Count words and characters", Category: models.CategoryText, Popularity: 150, IsActive: true, CreatedAt: now},
		{ID: "4", Name: "Legacy Tool", Description: "Retired utility", Category: models.CategoryUtility, Popularity: 500, IsActive: false, CreatedAt: now},
	}
}

func TestToolRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by descending popularity", func(t *testing.T) {
		repo := newToolRepository(testTools())

		tools, err := repo.List(ctx, database.ToolFilter{ActiveOnly: true}, database.Page{})

		require.NoError(t, err)
		require.Len(t, tools, 3)
		assert.Equal(t, "Word Counter", tools[0].Name)
		assert.Equal(t, "Password Generator", tools[1].Name)
		assert.Equal(t, "JSON Formatter", tools[2].Name)
	})

	t.Run("filters by category", func(t *testing.T) {
		repo := newToolRepository(testTools())

		tools, err := repo.List(ctx, database.ToolFilter{Category: models.CategoryUtility, ActiveOnly: true}, database.Page{})

		require.NoError(t, err)
		require.Len(t, tools, 1)
		assert.Equal(t, "Password Generator", tools[0].Name)
	})

	t.Run("search matches name and description case-insensitively", func(t *testing.T) {
		repo := newToolRepository(testTools())

		byName, err := repo.List(ctx, database.ToolFilter{Search: "json", ActiveOnly: true}, database.Page{})
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "JSON Formatter", byName[0].Name)

		byDescription, err := repo.List(ctx, database.ToolFilter{Search: "CHARACTERS", ActiveOnly: true}, database.Page{})
		require.NoError(t, err)
		require.Len(t, byDescription, 1)
		assert.Equal(t, "Word Counter", byDescription[0].Name)
	})

	t.Run("applies offset and limit after sorting", func(t *testing.T) {
		repo := newToolRepository(testTools())

		tools, err := repo.List(ctx, database.ToolFilter{ActiveOnly: true}, database.Page{Offset: 1, Limit: 1})

		require.NoError(t, err)
		require.Len(t, tools, 1)
		assert.Equal(t, "Password Generator", tools[0].Name)
	})

	t.Run("offset past the end yields empty page", func(t *testing.T) {
		repo := newToolRepository(testTools())

		tools, err := repo.List(ctx, database.ToolFilter{ActiveOnly: true}, database.Page{Offset: 10, Limit: 5})

		require.NoError(t, err)
		assert.Empty(t, tools)
	})
}

func TestToolRepository_Count(t *testing.T) {
	repo := newToolRepository(testTools())

	total, err := repo.Count(context.Background(), database.ToolFilter{ActiveOnly: true})

	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestToolRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := newToolRepository(testTools())

	t.Run("unknown id", func(t *testing.T) {
		tool, err := repo.GetByID(ctx, "999")

		assert.ErrorIs(t, err, database.ErrToolNotFound)
		assert.Nil(t, tool)
	})

	t.Run("success", func(t *testing.T) {
		tool, err := repo.GetByID(ctx, "2")

		require.NoError(t, err)
		assert.Equal(t, "JSON Formatter", tool.Name)
	})
}

func TestToolRepository_IncrementPopularity(t *testing.T) {
	ctx := context.Background()
	repo := newToolRepository(testTools())

	before, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := repo.IncrementPopularity(ctx, "1", 1)
		require.NoError(t, err)
	}

	after, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, before.Popularity+3, after.Popularity)

	_, err = repo.IncrementPopularity(ctx, "999", 1)
	assert.ErrorIs(t, err, database.ErrToolNotFound)
}

func TestURLRepository(t *testing.T) {
	ctx := context.Background()
	repo := newURLRepository(newIDSource())

	created, err := repo.Create(ctx, &models.ShortURL{
		LongURL:   "https://example.com",
		ShortCode: "abc123",
		IsActive:  true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	t.Run("duplicate active short code", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.ShortURL{
			LongURL:   "https://other.example.com",
			ShortCode: "abc123",
			IsActive:  true,
		})

		assert.ErrorIs(t, err, database.ErrShortCodeExists)
	})

	t.Run("clicks accumulate", func(t *testing.T) {
		require.NoError(t, repo.IncrementClicks(ctx, "abc123"))
		require.NoError(t, repo.IncrementClicks(ctx, "abc123"))

		rec, err := repo.GetByShortCode(ctx, "abc123")
		require.NoError(t, err)
		assert.EqualValues(t, 2, rec.Clicks)
	})

	t.Run("deactivated code stops resolving", func(t *testing.T) {
		require.NoError(t, repo.Deactivate(ctx, "abc123"))

		rec, err := repo.GetByShortCode(ctx, "abc123")
		assert.ErrorIs(t, err, database.ErrURLNotFound)
		assert.Nil(t, rec)

		assert.ErrorIs(t, repo.IncrementClicks(ctx, "abc123"), database.ErrURLNotFound)
	})

	t.Run("code is reusable after deactivation", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.ShortURL{
			LongURL:   "https://fresh.example.com",
			ShortCode: "abc123",
			IsActive:  true,
		})

		assert.NoError(t, err)
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := newUserRepository(newIDSource())

	user, err := repo.Create(ctx, &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Preferences:  models.DefaultPreferences(),
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.User{Username: "alice", Email: "alice2@example.com"})

		assert.ErrorIs(t, err, database.ErrUserExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.User{Username: "alice2", Email: "alice@example.com"})

		assert.ErrorIs(t, err, database.ErrUserExists)
	})

	t.Run("login by username or email", func(t *testing.T) {
		byUsername, err := repo.GetByLogin(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byUsername.ID)

		byEmail, err := repo.GetByLogin(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		_, err = repo.GetByLogin(ctx, "nobody")
		assert.ErrorIs(t, err, database.ErrUserNotFound)
	})

	t.Run("favorites", func(t *testing.T) {
		addedAt := time.Now()

		favorites, err := repo.AddFavorite(ctx, user.ID, "7", addedAt)
		require.NoError(t, err)
		require.Len(t, favorites, 1)
		assert.Equal(t, "7", favorites[0].ToolID)
		assert.Equal(t, addedAt, favorites[0].AddedAt)

		_, err = repo.AddFavorite(ctx, user.ID, "7", addedAt)
		assert.ErrorIs(t, err, database.ErrFavoriteExists)

		favorites, err = repo.RemoveFavorite(ctx, user.ID, "7")
		require.NoError(t, err)
		assert.Empty(t, favorites)
	})

	t.Run("update preferences", func(t *testing.T) {
		updated, err := repo.UpdatePreferences(ctx, user.ID, models.Preferences{Theme: "dark", Language: "de"})

		require.NoError(t, err)
		assert.Equal(t, "dark", updated.Preferences.Theme)
		assert.Equal(t, "de", updated.Preferences.Language)
	})

	t.Run("update last login", func(t *testing.T) {
		at := time.Now().Add(time.Hour)

		require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

		fresh, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, at, fresh.LastLogin)
	})
}

func TestEventRepository(t *testing.T) {
	ctx := context.Background()
	repo := newEventRepository(newIDSource())

	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	events := []models.Event{
		{ToolID: "1", IP: "10.0.0.1", EventType: models.EventView, Timestamp: base},
		{ToolID: "1", IP: "10.0.0.2", EventType: models.EventUse, Timestamp: base.Add(time.Hour)},
		{ToolID: "2", IP: "10.0.0.1", EventType: models.EventUse, Timestamp: base.Add(25 * time.Hour)},
		{ToolID: "2", IP: "10.0.0.3", EventType: models.EventUse, Timestamp: base.Add(26 * time.Hour)},
	}
	for i := range events {
		_, err := repo.Insert(ctx, &events[i])
		require.NoError(t, err)
	}

	t.Run("count with window", func(t *testing.T) {
		total, err := repo.Count(ctx, database.EventFilter{
			From: base,
			To:   base.Add(24 * time.Hour),
		})

		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("window upper bound is exclusive", func(t *testing.T) {
		total, err := repo.Count(ctx, database.EventFilter{
			From: base,
			To:   base.Add(25 * time.Hour),
		})

		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("distinct ips preserve first-seen order", func(t *testing.T) {
		ips, err := repo.DistinctIPs(ctx, database.EventFilter{})

		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}, ips)
	})

	t.Run("count by day", func(t *testing.T) {
		counts, err := repo.CountByDay(ctx, database.EventFilter{})

		require.NoError(t, err)
		assert.EqualValues(t, 2, counts["2026-03-10"])
		assert.EqualValues(t, 2, counts["2026-03-11"])
	})

	t.Run("count by tool ranks by use count", func(t *testing.T) {
		usage, err := repo.CountByTool(ctx, models.EventUse, 5)

		require.NoError(t, err)
		require.Len(t, usage, 2)
		assert.Equal(t, "2", usage[0].ToolID)
		assert.EqualValues(t, 2, usage[0].Count)
		assert.Equal(t, "1", usage[1].ToolID)
		assert.EqualValues(t, 1, usage[1].Count)
	})
}

func TestNewStore_Seed(t *testing.T) {
	store := NewStore()

	assert.True(t, store.Fallback)

	total, err := store.Tools.Count(context.Background(), database.ToolFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 48, total)

	tool, err := store.Tools.GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Password Generator", tool.Name)
}
