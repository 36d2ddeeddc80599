package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/wangfeiwest163/toolshub/internal/metrics"
	"github.com/wangfeiwest163/toolshub/internal/models"
	"github.com/wangfeiwest163/toolshub/internal/service"
	"github.com/wangfeiwest163/toolshub/pkg/response"
)

// trackRequest represents the request payload for recording an analytics
// event. An unrecognized action is recorded as a view; a missing userAgent
// falls back to the request header.
type trackRequest struct {
	ToolID    string `json:"toolId"`
	UserID    string `json:"userId"`
	Action    string `json:"action"`
	IP        string `json:"ip" validate:"required"`
	UserAgent string `json:"userAgent"`
}

// handleTrackEvent handles POST requests that record a usage event.
func handleTrackEvent(svc AnalyticsService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleTrackEvent"
	const successMsg = "Event tracked successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req trackRequest

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

		if req.UserAgent == "" {
			req.UserAgent = r.UserAgent()
		}

		_, total, err := svc.Track(r.Context(), service.TrackParams{
			ToolID:    req.ToolID,
			UserID:    req.UserID,
			Action:    req.Action,
			IP:        req.IP,
			UserAgent: req.UserAgent,
		})
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		metrics.RecordEventTracked(models.NormalizeEventType(req.Action))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, map[string]int64{
			"totalVisits": total,
		}))
	}
}

// handleOverview handles GET requests for the site-wide analytics summary.
func handleOverview(svc AnalyticsService) http.HandlerFunc {
	const op = "api.http.handleOverview"
	const successMsg = "Analytics overview retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := svc.GetOverview(r.Context())
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, overview))
	}
}

// handleDailySummary handles GET requests for today's visit summary.
func handleDailySummary(svc AnalyticsService) http.HandlerFunc {
	const op = "api.http.handleDailySummary"
	const successMsg = "Daily summary retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.GetDailySummary(r.Context())
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, summary))
	}
}

// handleWeeklySummary handles GET requests for the trailing 7-day trend.
func handleWeeklySummary(svc AnalyticsService) http.HandlerFunc {
	const op = "api.http.handleWeeklySummary"
	const successMsg = "Weekly summary retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.GetWeeklySummary(r.Context())
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, summary))
	}
}

// handleMonthlySummary handles GET requests for the trailing 12-month trend.
func handleMonthlySummary(svc AnalyticsService) http.HandlerFunc {
	const op = "api.http.handleMonthlySummary"
	const successMsg = "Monthly summary retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.GetMonthlySummary(r.Context())
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, summary))
	}
}

// handleEngagement handles GET requests for the returning-user report.
func handleEngagement(svc AnalyticsService) http.HandlerFunc {
	const op = "api.http.handleEngagement"
	const successMsg = "Engagement report retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.GetEngagement(r.Context())
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, report))
	}
}

// handleToolSummary handles GET requests for per-tool usage statistics.
func handleToolSummary(svc AnalyticsService) http.HandlerFunc {
	const op = "api.http.handleToolSummary"
	const successMsg = "Tool analytics retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		toolID := chi.URLParam(r, "toolID")

		summary, err := svc.GetToolSummary(r.Context(), toolID)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, summary))
	}
}
