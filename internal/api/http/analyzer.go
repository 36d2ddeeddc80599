package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/wangfeiwest163/toolshub/internal/inspector"
	"github.com/wangfeiwest163/toolshub/internal/metrics"
	"github.com/wangfeiwest163/toolshub/pkg/response"
)

// analyzeRequest represents the request payload for page analysis.
type analyzeRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// handleAnalyzeURL handles POST requests that run a full page analysis:
// redirect chain, document structure, security headers, technologies.
func handleAnalyzeURL(svc InspectorService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleAnalyzeURL"
	const successMsg = "The URL has been analyzed successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest

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

		report, err := svc.Inspect(r.Context(), req.URL)
		if err != nil {
			if errors.Is(err, inspector.ErrInvalidURL) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.BadRequestResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Response{
				Status:  response.StatusError,
				Error:   "Upstream Error",
				Message: "The target page could not be fetched.",
			})
			return
		}

		metrics.RecordPageInspected()

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, report))
	}
}

// handleQuickCheck handles POST requests that probe a URL's reachability
// with a single request.
func handleQuickCheck(svc InspectorService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleQuickCheck"
	const successMsg = "The URL has been checked successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest

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

		report, err := svc.QuickCheck(r.Context(), req.URL)
		if err != nil {
			if errors.Is(err, inspector.ErrInvalidURL) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.BadRequestResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, report))
	}
}
