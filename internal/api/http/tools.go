package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
	"github.com/wangfeiwest163/toolshub/internal/service"
	"github.com/wangfeiwest163/toolshub/pkg/response"
)

// handleHealthz reports whether the server is up and which datastore backs
// it.
func handleHealthz(healthy func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		datastore := "primary"
		if healthy != nil && !healthy() {
			datastore = "fallback"
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{
			"status":    "ok",
			"datastore": datastore,
		})
	}
}

// toolResponse represents a catalog tool in API payloads.
type toolResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	URL         string    `json:"url"`
	Icon        string    `json:"icon"`
	Popularity  int64     `json:"popularity"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toToolResponse(tool *models.Tool) toolResponse {
	return toolResponse{
		ID:          tool.ID,
		Name:        tool.Name,
		Description: tool.Description,
		Category:    tool.Category,
		URL:         tool.URL,
		Icon:        tool.Icon,
		Popularity:  tool.Popularity,
		IsActive:    tool.IsActive,
		CreatedAt:   tool.CreatedAt,
	}
}

// toolPageResponse represents a paginated tool listing.
type toolPageResponse struct {
	Tools       []toolResponse `json:"tools"`
	Total       int64          `json:"total"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

func toToolPageResponse(page *service.ToolPage) toolPageResponse {
	resp := toolPageResponse{
		Tools:       make([]toolResponse, 0, len(page.Tools)),
		Total:       page.Total,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
	}

	for i := range page.Tools {
		resp.Tools = append(resp.Tools, toToolResponse(&page.Tools[i]))
	}

	return resp
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

// handleListTools handles GET requests for the tool catalog with optional
// category, search, and pagination parameters.
func handleListTools(svc CatalogService) http.HandlerFunc {
	const op = "api.http.handleListTools"
	const successMsg = "Tools retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.ListTools(r.Context(), service.ListToolsParams{
			Category: r.URL.Query().Get("category"),
			Search:   r.URL.Query().Get("search"),
			Page:     queryInt(r, "page"),
			Limit:    queryInt(r, "limit"),
		})
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toToolPageResponse(page)))
	}
}

// handleGetTool handles GET requests for a single tool by id.
func handleGetTool(svc CatalogService) http.HandlerFunc {
	const op = "api.http.handleGetTool"
	const successMsg = "Tool retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		tool, err := svc.GetToolByID(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrToolNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
			case errors.Is(err, database.ErrInvalidID):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.BadRequestResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toToolResponse(tool)))
	}
}

// handleToolsByCategory handles GET requests for tools in one category.
func handleToolsByCategory(svc CatalogService) http.HandlerFunc {
	const op = "api.http.handleToolsByCategory"
	const successMsg = "Tools retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		category := chi.URLParam(r, "category")

		tools, err := svc.GetToolsByCategory(r.Context(), category)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		resp := make([]toolResponse, 0, len(tools))
		for i := range tools {
			resp = append(resp, toToolResponse(&tools[i]))
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, resp))
	}
}

// handlePopularTools handles GET requests for the most used tools. The
// optional limit path parameter caps the result size.
func handlePopularTools(svc CatalogService) http.HandlerFunc {
	const op = "api.http.handlePopularTools"
	const successMsg = "Popular tools retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := chi.URLParam(r, "limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.BadRequestResponse)
				return
			}
			limit = n
		}

		tools, err := svc.PopularTools(r.Context(), limit)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		resp := make([]toolResponse, 0, len(tools))
		for i := range tools {
			resp = append(resp, toToolResponse(&tools[i]))
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, resp))
	}
}

// handleRecordUsage handles POST requests that bump a tool's popularity
// counter.
func handleRecordUsage(svc CatalogService) http.HandlerFunc {
	const op = "api.http.handleRecordUsage"
	const successMsg = "Tool usage recorded successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		toolID := chi.URLParam(r, "toolID")

		tool, err := svc.RecordUsage(r.Context(), toolID)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrToolNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
			case errors.Is(err, database.ErrInvalidID):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.BadRequestResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toToolResponse(tool)))
	}
}
