package service

import (
	"context"
	"fmt"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

const (
	defaultPageSize     = 12
	defaultPopularLimit = 10
)

// ListToolsParams narrows and pages a catalog listing.
type ListToolsParams struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ToolPage is one page of catalog results.
type ToolPage struct {
	Tools       []models.Tool
	Total       int64
	TotalPages  int
	CurrentPage int
}

// CatalogService answers tool listing queries and records popularity.
type CatalogService struct {
	tools database.ToolRepository
}

// NewCatalogService creates a catalog service over the given repository.
func NewCatalogService(tools database.ToolRepository) *CatalogService {
	return &CatalogService{tools: tools}
}

// ListTools returns active tools matching the filter, ordered by descending
// popularity. Page defaults to 1 and limit to 12.
func (s *CatalogService) ListTools(ctx context.Context, params ListToolsParams) (*ToolPage, error) {
	const op = "service.CatalogService.ListTools"

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultPageSize
	}

	filter := database.ToolFilter{
		Category:   params.Category,
		Search:     params.Search,
		ActiveOnly: true,
	}

	total, err := s.tools.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count tools: %w", op, err)
	}

	tools, err := s.tools.List(ctx, filter, database.Page{
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list tools: %w", op, err)
	}

	return &ToolPage{
		Tools:       tools,
		Total:       total,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
	}, nil
}

// GetToolByID returns the tool or ErrToolNotFound. Inactive tools are
// reported as not found.
func (s *CatalogService) GetToolByID(ctx context.Context, id string) (*models.Tool, error) {
	const op = "service.CatalogService.GetToolByID"

	tool, err := s.tools.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get tool: %w", op, err)
	}
	if !tool.IsActive {
		return nil, fmt.Errorf("%s: %w", op, database.ErrToolNotFound)
	}

	return tool, nil
}

// GetToolsByCategory returns every active tool in the category, ordered by
// descending popularity, unpaginated.
func (s *CatalogService) GetToolsByCategory(ctx context.Context, category string) ([]models.Tool, error) {
	const op = "service.CatalogService.GetToolsByCategory"

	tools, err := s.tools.List(ctx, database.ToolFilter{
		Category:   category,
		ActiveOnly: true,
	}, database.Page{})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list tools: %w", op, err)
	}

	return tools, nil
}

// PopularTools returns the most popular active tools. A non-positive limit
// falls back to 10.
func (s *CatalogService) PopularTools(ctx context.Context, limit int) ([]models.Tool, error) {
	const op = "service.CatalogService.PopularTools"

	if limit < 1 {
		limit = defaultPopularLimit
	}

	tools, err := s.tools.List(ctx, database.ToolFilter{ActiveOnly: true}, database.Page{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list tools: %w", op, err)
	}

	return tools, nil
}

// RecordUsage increments the tool's popularity counter by one and returns
// the updated record.
func (s *CatalogService) RecordUsage(ctx context.Context, id string) (*models.Tool, error) {
	const op = "service.CatalogService.RecordUsage"

	tool, err := s.tools.IncrementPopularity(ctx, id, 1)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to record usage: %w", op, err)
	}

	return tool, nil
}
