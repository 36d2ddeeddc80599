package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

type ShortenerServiceTestSuite struct {
	suite.Suite
	errUnknown error
	urlsMock   *MockURLRepository
	svc        *ShortenerService
}

func (suite *ShortenerServiceTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *ShortenerServiceTestSuite) SetupSubTest() {
	suite.urlsMock = new(MockURLRepository)
	suite.svc = NewShortenerService(
		suite.urlsMock,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		"https://hub.example.com/",
		6,
	)
}

func (suite *ShortenerServiceTestSuite) TearDownSubTest() {
	suite.urlsMock.AssertExpectations(suite.T())
}

func (suite *ShortenerServiceTestSuite) TestShorten() {
	ctx := context.Background()

	suite.Run("invalid url", func() {
		for _, raw := range []string{"", "not a url", "ftp://example.com", "https://"} {
			url, err := suite.svc.Shorten(ctx, raw, "", "")

			suite.ErrorIs(err, ErrInvalidURL)
			suite.Nil(url)
		}
	})

	suite.Run("custom code", func() {
		suite.urlsMock.
			On("Create", ctx, mock.MatchedBy(func(u *models.ShortURL) bool {
				return u.ShortCode == "mycode" &&
					u.LongURL == "https://example.com" &&
					u.ShortURL == "https://hub.example.com/s/mycode" &&
					u.CreatedBy == "anonymous" &&
					u.IsActive
			})).
			Once().
			Return(&models.ShortURL{ID: "1", ShortCode: "mycode"}, nil)

		url, err := suite.svc.Shorten(ctx, "https://example.com", "mycode", "")

		suite.NoError(err)
		suite.Equal("mycode", url.ShortCode)
	})

	suite.Run("custom code conflict", func() {
		suite.urlsMock.
			On("Create", ctx, mock.Anything).
			Once().
			Return(nil, database.ErrShortCodeExists)

		url, err := suite.svc.Shorten(ctx, "https://example.com", "taken", "")

		suite.ErrorIs(err, database.ErrShortCodeExists)
		suite.Nil(url)
	})

	suite.Run("generated code length", func() {
		suite.urlsMock.
			On("Create", ctx, mock.MatchedBy(func(u *models.ShortURL) bool {
				return len(u.ShortCode) == 6 && u.CreatedBy == "user-1"
			})).
			Once().
			Return(&models.ShortURL{ID: "1"}, nil)

		url, err := suite.svc.Shorten(ctx, "https://example.com", "", "user-1")

		suite.NoError(err)
		suite.NotNil(url)
	})

	suite.Run("maximum retries exceeded", func() {
		suite.urlsMock.
			On("Create", ctx, mock.Anything).
			Times(5).
			Return(nil, database.ErrShortCodeExists)

		url, err := suite.svc.Shorten(ctx, "https://example.com", "", "")

		suite.ErrorIs(err, ErrMaxRetriesExceeded)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.urlsMock.
			On("Create", ctx, mock.Anything).
			Once().
			Return(nil, suite.errUnknown)

		url, err := suite.svc.Shorten(ctx, "https://example.com", "", "")

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})
}

func (suite *ShortenerServiceTestSuite) TestResolve() {
	ctx := context.Background()

	suite.Run("not found", func() {
		suite.urlsMock.
			On("GetByShortCode", ctx, "missing").
			Once().
			Return(nil, database.ErrURLNotFound)

		url, err := suite.svc.Resolve(ctx, "missing")

		suite.ErrorIs(err, database.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("expired code reads as not found", func() {
		suite.urlsMock.
			On("GetByShortCode", ctx, "old").
			Once().
			Return(&models.ShortURL{
				ShortCode: "old",
				ExpiresAt: time.Now().Add(-time.Hour),
				IsActive:  true,
			}, nil)

		url, err := suite.svc.Resolve(ctx, "old")

		suite.ErrorIs(err, database.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("click failure does not block resolution", func() {
		suite.urlsMock.
			On("GetByShortCode", ctx, "abc123").
			Once().
			Return(&models.ShortURL{ShortCode: "abc123", LongURL: "https://example.com", Clicks: 7, IsActive: true}, nil)
		suite.urlsMock.
			On("IncrementClicks", ctx, "abc123").
			Once().
			Return(suite.errUnknown)

		url, err := suite.svc.Resolve(ctx, "abc123")

		suite.NoError(err)
		suite.Equal("https://example.com", url.LongURL)
		suite.EqualValues(7, url.Clicks)
	})

	suite.Run("success counts the click", func() {
		suite.urlsMock.
			On("GetByShortCode", ctx, "abc123").
			Once().
			Return(&models.ShortURL{ShortCode: "abc123", LongURL: "https://example.com", Clicks: 7, IsActive: true}, nil)
		suite.urlsMock.
			On("IncrementClicks", ctx, "abc123").
			Once().
			Return(nil)

		url, err := suite.svc.Resolve(ctx, "abc123")

		suite.NoError(err)
		suite.EqualValues(8, url.Clicks)
	})
}

func (suite *ShortenerServiceTestSuite) TestStats() {
	ctx := context.Background()

	suite.Run("success without counting", func() {
		suite.urlsMock.
			On("GetByShortCode", ctx, "abc123").
			Once().
			Return(&models.ShortURL{ShortCode: "abc123", Clicks: 42, IsActive: true}, nil)

		url, err := suite.svc.Stats(ctx, "abc123")

		suite.NoError(err)
		suite.EqualValues(42, url.Clicks)
		suite.urlsMock.AssertNotCalled(suite.T(), "IncrementClicks", mock.Anything, mock.Anything)
	})
}

func (suite *ShortenerServiceTestSuite) TestDeactivate() {
	ctx := context.Background()

	suite.Run("not found", func() {
		suite.urlsMock.
			On("Deactivate", ctx, "missing").
			Once().
			Return(database.ErrURLNotFound)

		err := suite.svc.Deactivate(ctx, "missing")

		suite.ErrorIs(err, database.ErrURLNotFound)
	})

	suite.Run("success", func() {
		suite.urlsMock.
			On("Deactivate", ctx, "abc123").
			Once().
			Return(nil)

		err := suite.svc.Deactivate(ctx, "abc123")

		suite.NoError(err)
	})
}

func TestShortenerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ShortenerServiceTestSuite))
}
