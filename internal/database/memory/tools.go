package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

type toolRepository struct {
	mu    sync.RWMutex
	tools []models.Tool
}

func newToolRepository(tools []models.Tool) *toolRepository {
	return &toolRepository{tools: tools}
}

func matchTool(t *models.Tool, filter database.ToolFilter) bool {
	if filter.ActiveOnly && !t.IsActive {
		return false
	}
	if filter.Category != "" && t.Category != filter.Category {
		return false
	}
	if filter.Search != "" {
		term := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(t.Name), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	return true
}

func (r *toolRepository) List(ctx context.Context, filter database.ToolFilter, page database.Page) ([]models.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Tool
	for i := range r.tools {
		if matchTool(&r.tools[i], filter) {
			result = append(result, r.tools[i])
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Popularity > result[j].Popularity
	})

	if page.Offset > 0 {
		if page.Offset >= len(result) {
			return nil, nil
		}
		result = result[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(result) {
		result = result[:page.Limit]
	}

	return result, nil
}

func (r *toolRepository) Count(ctx context.Context, filter database.ToolFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for i := range r.tools {
		if matchTool(&r.tools[i], filter) {
			count++
		}
	}

	return count, nil
}

func (r *toolRepository) GetByID(ctx context.Context, id string) (*models.Tool, error) {
	const op = "database.memory.toolRepository.GetByID"

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.tools {
		if r.tools[i].ID == id {
			t := r.tools[i]
			return &t, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, database.ErrToolNotFound)
}

func (r *toolRepository) IncrementPopularity(ctx context.Context, id string, delta int64) (*models.Tool, error) {
	const op = "database.memory.toolRepository.IncrementPopularity"

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tools {
		if r.tools[i].ID == id {
			r.tools[i].Popularity += delta
			t := r.tools[i]
			return &t, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, database.ErrToolNotFound)
}
