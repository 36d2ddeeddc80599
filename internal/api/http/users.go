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
	"github.com/wangfeiwest163/toolshub/internal/models"
	"github.com/wangfeiwest163/toolshub/internal/service"
	"github.com/wangfeiwest163/toolshub/pkg/response"
)

// registerRequest represents the request payload for account creation.
type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// loginRequest represents the request payload for authentication. Username
// accepts either the username or the email.
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// preferencesRequest represents the request payload for preference updates.
type preferencesRequest struct {
	Theme    string `json:"theme" validate:"omitempty,oneof=light dark"`
	Language string `json:"language" validate:"omitempty,min=2,max=8"`
}

// userResponse represents an account in API payloads. The password hash
// never leaves the server.
type userResponse struct {
	ID          string              `json:"id"`
	Username    string              `json:"username"`
	Email       string              `json:"email"`
	Preferences preferencesResponse `json:"preferences"`
	CreatedAt   time.Time           `json:"createdAt"`
	LastLogin   time.Time           `json:"lastLogin"`
}

type preferencesResponse struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// authResponse pairs an account with its bearer token.
type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

// favoriteResponse represents a bare favorite entry.
type favoriteResponse struct {
	ToolID  string    `json:"toolId"`
	AddedAt time.Time `json:"addedAt"`
}

// favoriteToolResponse represents a favorite joined with tool metadata.
type favoriteToolResponse struct {
	ToolID      string    `json:"toolId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	URL         string    `json:"url"`
	Icon        string    `json:"icon"`
	AddedAt     time.Time `json:"addedAt"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Preferences: preferencesResponse{
			Theme:    user.Preferences.Theme,
			Language: user.Preferences.Language,
		},
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}
}

func toFavoriteResponses(favorites []models.Favorite) []favoriteResponse {
	resp := make([]favoriteResponse, 0, len(favorites))
	for _, fav := range favorites {
		resp = append(resp, favoriteResponse{ToolID: fav.ToolID, AddedAt: fav.AddedAt})
	}
	return resp
}

// handleRegister handles POST requests that create an account and return
// it with a fresh token.
func handleRegister(svc UserService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleRegister"
	const successMsg = "The account has been created successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest

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

		user, token, err := svc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, database.ErrUserExists) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.ConflictResponse("An account with this username or email already exists."))
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, authResponse{
			User:  toUserResponse(user),
			Token: token,
		}))
	}
}

// handleLogin handles POST requests that authenticate by username or email.
func handleLogin(svc UserService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleLogin"
	const successMsg = "Logged in successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest

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

		user, token, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.UnauthorizedResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, authResponse{
			User:  toUserResponse(user),
			Token: token,
		}))
	}
}

// handleProfile handles GET requests for an account record.
func handleProfile(svc UserService) http.HandlerFunc {
	const op = "api.http.handleProfile"
	const successMsg = "Profile retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		user, err := svc.Profile(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrUserNotFound):
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
		render.JSON(w, r, response.SuccessResponse(successMsg, toUserResponse(user)))
	}
}

// handleListFavorites handles GET requests for a user's favorites joined
// with tool metadata.
func handleListFavorites(svc UserService) http.HandlerFunc {
	const op = "api.http.handleListFavorites"
	const successMsg = "Favorites retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")

		favorites, err := svc.Favorites(r.Context(), userID)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrUserNotFound):
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

		resp := make([]favoriteToolResponse, 0, len(favorites))
		for _, fav := range favorites {
			resp = append(resp, favoriteToolResponse{
				ToolID:      fav.ToolID,
				Name:        fav.Name,
				Description: fav.Description,
				Category:    fav.Category,
				URL:         fav.URL,
				Icon:        fav.Icon,
				AddedAt:     fav.AddedAt,
			})
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, resp))
	}
}

// handleAddFavorite handles POST requests that bookmark a tool for a user.
func handleAddFavorite(svc UserService) http.HandlerFunc {
	const op = "api.http.handleAddFavorite"
	const successMsg = "The tool has been added to favorites."

	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		toolID := chi.URLParam(r, "toolID")

		favorites, err := svc.AddFavorite(r.Context(), userID, toolID)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrUserNotFound), errors.Is(err, database.ErrToolNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
			case errors.Is(err, database.ErrFavoriteExists):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.ConflictResponse("The tool is already in favorites."))
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
		render.JSON(w, r, response.SuccessResponse(successMsg, toFavoriteResponses(favorites)))
	}
}

// handleRemoveFavorite handles DELETE requests that drop a tool from a
// user's favorites.
func handleRemoveFavorite(svc UserService) http.HandlerFunc {
	const op = "api.http.handleRemoveFavorite"
	const successMsg = "The tool has been removed from favorites."

	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		toolID := chi.URLParam(r, "toolID")

		favorites, err := svc.RemoveFavorite(r.Context(), userID, toolID)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrUserNotFound):
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
		render.JSON(w, r, response.SuccessResponse(successMsg, toFavoriteResponses(favorites)))
	}
}

// handleUpdatePreferences handles PUT requests that change a user's
// preferences. The authenticated user may only change their own.
func handleUpdatePreferences(svc UserService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleUpdatePreferences"
	const successMsg = "Preferences updated successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")

		if authUserID(r.Context()) != userID {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		var req preferencesRequest

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

		prefs, err := svc.UpdatePreferences(r.Context(), userID, req.Theme, req.Language)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrUserNotFound):
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
		render.JSON(w, r, response.SuccessResponse(successMsg, preferencesResponse{
			Theme:    prefs.Theme,
			Language: prefs.Language,
		}))
	}
}
