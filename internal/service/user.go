package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

var (
	// ErrInvalidCredentials is returned on any login failure; it does not
	// reveal whether the account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("invalid token")
)

// FavoriteTool is a favorite joined with the tool's display metadata.
type FavoriteTool struct {
	ToolID      string
	Name        string
	Description string
	Category    string
	URL         string
	Icon        string
	AddedAt     time.Time
}

// UserService manages accounts, favorites, and bearer tokens.
type UserService struct {
	users    database.UserRepository
	tools    database.ToolRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewUserService creates a user service. secret signs issued tokens.
func NewUserService(users database.UserRepository, tools database.ToolRepository, secret []byte, tokenTTL time.Duration) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &UserService{
		users:    users,
		tools:    tools,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *UserService) issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken checks the token signature and expiry and returns the user id
// it carries.
func (s *UserService) VerifyToken(token string) (string, error) {
	const op = "service.UserService.VerifyToken"

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return sub, nil
}

// Register creates an account and issues a token for it. Duplicate
// usernames or emails yield ErrUserExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	const op = "service.UserService.Register"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Preferences:  models.DefaultPreferences(),
		CreatedAt:    time.Now(),
		LastLogin:    time.Now(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: failed to issue token: %w", op, err)
	}

	return user, token, nil
}

// Login authenticates by username or email and issues a token. Every
// failure path reports the same ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, login, password string) (*models.User, string, error) {
	const op = "service.UserService.Login"

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user.LastLogin = time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, user.LastLogin); err != nil {
		return nil, "", fmt.Errorf("%s: failed to update last login: %w", op, err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: failed to issue token: %w", op, err)
	}

	return user, token, nil
}

// Profile returns the account record.
func (s *UserService) Profile(ctx context.Context, id string) (*models.User, error) {
	const op = "service.UserService.Profile"

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return user, nil
}

// AddFavorite bookmarks the tool for the user. Both must exist; a
// duplicate yields ErrFavoriteExists.
func (s *UserService) AddFavorite(ctx context.Context, userID, toolID string) ([]models.Favorite, error) {
	const op = "service.UserService.AddFavorite"

	if _, err := s.tools.GetByID(ctx, toolID); err != nil {
		return nil, fmt.Errorf("%s: failed to get tool: %w", op, err)
	}

	favorites, err := s.users.AddFavorite(ctx, userID, toolID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to add favorite: %w", op, err)
	}

	return favorites, nil
}

// RemoveFavorite drops the tool from the user's favorites. Removing a tool
// that is not favorited is not an error.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, toolID string) ([]models.Favorite, error) {
	const op = "service.UserService.RemoveFavorite"

	favorites, err := s.users.RemoveFavorite(ctx, userID, toolID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to remove favorite: %w", op, err)
	}

	return favorites, nil
}

// Favorites returns the user's favorites joined with tool metadata.
// Favorites pointing at tools that have left the catalog are skipped.
func (s *UserService) Favorites(ctx context.Context, userID string) ([]FavoriteTool, error) {
	const op = "service.UserService.Favorites"

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	favorites := make([]FavoriteTool, 0, len(user.Favorites))
	for _, fav := range user.Favorites {
		tool, err := s.tools.GetByID(ctx, fav.ToolID)
		if err != nil {
			if errors.Is(err, database.ErrToolNotFound) || errors.Is(err, database.ErrInvalidID) {
				continue
			}
			return nil, fmt.Errorf("%s: failed to get tool: %w", op, err)
		}

		favorites = append(favorites, FavoriteTool{
			ToolID:      tool.ID,
			Name:        tool.Name,
			Description: tool.Description,
			Category:    tool.Category,
			URL:         tool.URL,
			Icon:        tool.Icon,
			AddedAt:     fav.AddedAt,
		})
	}

	return favorites, nil
}

// UpdatePreferences overwrites the provided fields; empty fields keep their
// current value.
func (s *UserService) UpdatePreferences(ctx context.Context, userID, theme, language string) (*models.Preferences, error) {
	const op = "service.UserService.UpdatePreferences"

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	prefs := user.Preferences
	if theme != "" {
		prefs.Theme = theme
	}
	if language != "" {
		prefs.Language = language
	}

	updated, err := s.users.UpdatePreferences(ctx, userID, prefs)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update preferences: %w", op, err)
	}

	return &updated.Preferences, nil
}
