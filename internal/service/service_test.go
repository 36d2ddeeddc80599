package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

type MockToolRepository struct {
	mock.Mock
}

func (r *MockToolRepository) List(ctx context.Context, filter database.ToolFilter, page database.Page) ([]models.Tool, error) {
	args := r.Called(ctx, filter, page)
	tools, _ := args.Get(0).([]models.Tool)
	return tools, args.Error(1)
}

func (r *MockToolRepository) Count(ctx context.Context, filter database.ToolFilter) (int64, error) {
	args := r.Called(ctx, filter)
	total, _ := args.Get(0).(int64)
	return total, args.Error(1)
}

func (r *MockToolRepository) GetByID(ctx context.Context, id string) (*models.Tool, error) {
	args := r.Called(ctx, id)
	tool, _ := args.Get(0).(*models.Tool)
	return tool, args.Error(1)
}

func (r *MockToolRepository) IncrementPopularity(ctx context.Context, id string, delta int64) (*models.Tool, error) {
	args := r.Called(ctx, id, delta)
	tool, _ := args.Get(0).(*models.Tool)
	return tool, args.Error(1)
}

type MockURLRepository struct {
	mock.Mock
}

func (r *MockURLRepository) Create(ctx context.Context, url *models.ShortURL) (*models.ShortURL, error) {
	args := r.Called(ctx, url)
	created, _ := args.Get(0).(*models.ShortURL)
	return created, args.Error(1)
}

func (r *MockURLRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.ShortURL, error) {
	args := r.Called(ctx, shortCode)
	rec, _ := args.Get(0).(*models.ShortURL)
	return rec, args.Error(1)
}

func (r *MockURLRepository) IncrementClicks(ctx context.Context, shortCode string) error {
	args := r.Called(ctx, shortCode)
	return args.Error(0)
}

func (r *MockURLRepository) Deactivate(ctx context.Context, shortCode string) error {
	args := r.Called(ctx, shortCode)
	return args.Error(0)
}
