package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

// shortCodeAlphabet is the 62-symbol alphanumeric alphabet codes are drawn
// from.
const shortCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const defaultShortCodeLength = 6

var (
	// ErrInvalidURL is returned when the long URL is not an absolute
	// http(s) URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrMaxRetriesExceeded is returned when the maximum number of retries
	// for generating a short code is exceeded.
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")
)

// ShortenerService creates and resolves short codes for long URLs.
type ShortenerService struct {
	urls       database.URLRepository
	logger     *slog.Logger
	baseURL    string
	codeLength int
}

// NewShortenerService creates a shortener. baseURL is the public prefix
// shortened addresses are built from, e.g. "https://toolshub.example.com".
func NewShortenerService(urls database.URLRepository, logger *slog.Logger, baseURL string, codeLength int) *ShortenerService {
	if codeLength < 1 {
		codeLength = defaultShortCodeLength
	}
	return &ShortenerService{
		urls:       urls,
		logger:     logger,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		codeLength: codeLength,
	}
}

func validateLongURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// Shorten maps longURL to a short code. With a custom code the mapping is
// created exactly once and a duplicate yields ErrShortCodeExists; otherwise
// codes are generated until an unused one is found, bounded by a fixed
// number of attempts.
func (s *ShortenerService) Shorten(ctx context.Context, longURL, customCode, createdBy string) (*models.ShortURL, error) {
	const op = "service.ShortenerService.Shorten"
	const maxRetries = 5

	if err := validateLongURL(longURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if createdBy == "" {
		createdBy = "anonymous"
	}

	if customCode != "" {
		created, err := s.urls.Create(ctx, s.newRecord(longURL, customCode, createdBy))
		if err != nil {
			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}
		return created, nil
	}

	for i := 0; i < maxRetries; i++ {
		code, err := gonanoid.Generate(shortCodeAlphabet, s.codeLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		created, err := s.urls.Create(ctx, s.newRecord(longURL, code, createdBy))
		if err != nil {
			if errors.Is(err, database.ErrShortCodeExists) {
				continue
			}
			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return created, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

func (s *ShortenerService) newRecord(longURL, code, createdBy string) *models.ShortURL {
	return &models.ShortURL{
		LongURL:   longURL,
		ShortCode: code,
		ShortURL:  s.baseURL + "/s/" + code,
		Clicks:    0,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
		IsActive:  true,
	}
}

// Resolve returns the long URL behind an active, unexpired code and counts
// the click. A failure to count never blocks the redirect.
func (s *ShortenerService) Resolve(ctx context.Context, shortCode string) (*models.ShortURL, error) {
	const op = "service.ShortenerService.Resolve"

	rec, err := s.urls.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}
	if rec.Expired(time.Now()) {
		return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
	}

	if err := s.urls.IncrementClicks(ctx, shortCode); err != nil {
		s.logger.Warn("failed to count click",
			slog.String("op", op),
			slog.String("short_code", shortCode),
			slog.Any("err", err),
		)
	} else {
		rec.Clicks++
	}

	return rec, nil
}

// Stats returns the record behind an active code without counting a click.
func (s *ShortenerService) Stats(ctx context.Context, shortCode string) (*models.ShortURL, error) {
	const op = "service.ShortenerService.Stats"

	rec, err := s.urls.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return rec, nil
}

// Deactivate soft-deletes the mapping; the code stops resolving.
func (s *ShortenerService) Deactivate(ctx context.Context, shortCode string) error {
	const op = "service.ShortenerService.Deactivate"

	if err := s.urls.Deactivate(ctx, shortCode); err != nil {
		return fmt.Errorf("%s: failed to deactivate url: %w", op, err)
	}

	return nil
}
