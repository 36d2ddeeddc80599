package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/metrics"
	"github.com/wangfeiwest163/toolshub/internal/models"
	"github.com/wangfeiwest163/toolshub/internal/service"
	"github.com/wangfeiwest163/toolshub/pkg/response"
)

// shortenRequest represents the request payload for creating a short URL.
type shortenRequest struct {
	LongURL    string `json:"longUrl" validate:"required,url"`
	CustomCode string `json:"customCode" validate:"omitempty,alphanum,min=3,max=32"`
}

// shortURLResponse represents a freshly created short URL in API payloads.
type shortURLResponse struct {
	OriginalURL string     `json:"originalUrl"`
	ShortCode   string     `json:"shortCode"`
	ShortURL    string     `json:"shortUrl"`
	Clicks      int64      `json:"clicks"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	IsActive    bool       `json:"isActive"`
}

func toShortURLResponse(url *models.ShortURL) shortURLResponse {
	resp := shortURLResponse{
		OriginalURL: url.LongURL,
		ShortCode:   url.ShortCode,
		ShortURL:    url.ShortURL,
		Clicks:      url.Clicks,
		CreatedBy:   url.CreatedBy,
		CreatedAt:   url.CreatedAt,
		IsActive:    url.IsActive,
	}

	if !url.ExpiresAt.IsZero() {
		expiresAt := url.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}

	return resp
}

// urlStatsResponse represents a short URL's statistics. The internal id
// stays server-side.
type urlStatsResponse struct {
	ShortCode   string    `json:"shortCode"`
	OriginalURL string    `json:"originalUrl"`
	ShortURL    string    `json:"shortUrl"`
	Clicks      int64     `json:"clicks"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toURLStatsResponse(url *models.ShortURL) urlStatsResponse {
	return urlStatsResponse{
		ShortCode:   url.ShortCode,
		OriginalURL: url.LongURL,
		ShortURL:    url.ShortURL,
		Clicks:      url.Clicks,
		CreatedBy:   url.CreatedBy,
		CreatedAt:   url.CreatedAt,
	}
}

// handleShortenURL handles POST requests to create a short URL, with an
// optional caller-chosen code.
func handleShortenURL(svc ShortenerService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleShortenURL"
	const successMsg = "The URL has been shortened successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req shortenRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		url, err := svc.Shorten(r.Context(), req.LongURL, req.CustomCode, authUserID(r.Context()))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidURL):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.BadRequestResponse)
			case errors.Is(err, database.ErrShortCodeExists):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.ConflictResponse("The requested short code is already in use."))
			case errors.Is(err, service.ErrMaxRetriesExceeded):
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.ServerErrorResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		metrics.RecordShortURLCreated()

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, toShortURLResponse(url)))
	}
}

// handleRedirect handles GET requests on short links, replying with a 302
// to the long URL.
func handleRedirect(svc ShortenerService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		url, err := svc.Resolve(r.Context(), shortCode)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		metrics.RecordRedirect()

		http.Redirect(w, r, url.LongURL, http.StatusFound)
	}
}

// handleURLStats handles GET requests for a short URL's click statistics.
func handleURLStats(svc ShortenerService) http.HandlerFunc {
	const op = "api.http.handleURLStats"
	const successMsg = "URL statistics retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		url, err := svc.Stats(r.Context(), shortCode)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toURLStatsResponse(url)))
	}
}

// handleDeactivateURL handles DELETE requests that disable a short URL.
func handleDeactivateURL(svc ShortenerService) http.HandlerFunc {
	const op = "api.http.handleDeactivateURL"
	const successMsg = "The URL has been deactivated successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		if err := svc.Deactivate(r.Context(), shortCode); err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg))
	}
}
