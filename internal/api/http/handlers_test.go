package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/inspector"
	"github.com/wangfeiwest163/toolshub/internal/models"
	"github.com/wangfeiwest163/toolshub/internal/service"
	"github.com/wangfeiwest163/toolshub/pkg/response"
)

type MockCatalogService struct {
	mock.Mock
}

func (s *MockCatalogService) ListTools(ctx context.Context, params service.ListToolsParams) (*service.ToolPage, error) {
	args := s.Called(ctx, params)
	page, _ := args.Get(0).(*service.ToolPage)
	return page, args.Error(1)
}

func (s *MockCatalogService) GetToolByID(ctx context.Context, id string) (*models.Tool, error) {
	args := s.Called(ctx, id)
	tool, _ := args.Get(0).(*models.Tool)
	return tool, args.Error(1)
}

func (s *MockCatalogService) GetToolsByCategory(ctx context.Context, category string) ([]models.Tool, error) {
	args := s.Called(ctx, category)
	tools, _ := args.Get(0).([]models.Tool)
	return tools, args.Error(1)
}

func (s *MockCatalogService) PopularTools(ctx context.Context, limit int) ([]models.Tool, error) {
	args := s.Called(ctx, limit)
	tools, _ := args.Get(0).([]models.Tool)
	return tools, args.Error(1)
}

func (s *MockCatalogService) RecordUsage(ctx context.Context, id string) (*models.Tool, error) {
	args := s.Called(ctx, id)
	tool, _ := args.Get(0).(*models.Tool)
	return tool, args.Error(1)
}

type MockShortenerService struct {
	mock.Mock
}

func (s *MockShortenerService) Shorten(ctx context.Context, longURL, customCode, createdBy string) (*models.ShortURL, error) {
	args := s.Called(ctx, longURL, customCode, createdBy)
	url, _ := args.Get(0).(*models.ShortURL)
	return url, args.Error(1)
}

func (s *MockShortenerService) Resolve(ctx context.Context, shortCode string) (*models.ShortURL, error) {
	args := s.Called(ctx, shortCode)
	url, _ := args.Get(0).(*models.ShortURL)
	return url, args.Error(1)
}

func (s *MockShortenerService) Stats(ctx context.Context, shortCode string) (*models.ShortURL, error) {
	args := s.Called(ctx, shortCode)
	url, _ := args.Get(0).(*models.ShortURL)
	return url, args.Error(1)
}

func (s *MockShortenerService) Deactivate(ctx context.Context, shortCode string) error {
	args := s.Called(ctx, shortCode)
	return args.Error(0)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (s *MockAnalyticsService) Track(ctx context.Context, params service.TrackParams) (*models.Event, int64, error) {
	args := s.Called(ctx, params)
	event, _ := args.Get(0).(*models.Event)
	total, _ := args.Get(1).(int64)
	return event, total, args.Error(2)
}

func (s *MockAnalyticsService) GetOverview(ctx context.Context) (*service.Overview, error) {
	args := s.Called(ctx)
	overview, _ := args.Get(0).(*service.Overview)
	return overview, args.Error(1)
}

func (s *MockAnalyticsService) GetDailySummary(ctx context.Context) (*service.DailySummary, error) {
	args := s.Called(ctx)
	summary, _ := args.Get(0).(*service.DailySummary)
	return summary, args.Error(1)
}

func (s *MockAnalyticsService) GetWeeklySummary(ctx context.Context) (*service.RangeSummary, error) {
	args := s.Called(ctx)
	summary, _ := args.Get(0).(*service.RangeSummary)
	return summary, args.Error(1)
}

func (s *MockAnalyticsService) GetMonthlySummary(ctx context.Context) (*service.RangeSummary, error) {
	args := s.Called(ctx)
	summary, _ := args.Get(0).(*service.RangeSummary)
	return summary, args.Error(1)
}

func (s *MockAnalyticsService) GetToolSummary(ctx context.Context, toolID string) (*service.ToolSummary, error) {
	args := s.Called(ctx, toolID)
	summary, _ := args.Get(0).(*service.ToolSummary)
	return summary, args.Error(1)
}

func (s *MockAnalyticsService) GetEngagement(ctx context.Context) (*service.Engagement, error) {
	args := s.Called(ctx)
	report, _ := args.Get(0).(*service.Engagement)
	return report, args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (s *MockUserService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	args := s.Called(ctx, username, email, password)
	user, _ := args.Get(0).(*models.User)
	token, _ := args.Get(1).(string)
	return user, token, args.Error(2)
}

func (s *MockUserService) Login(ctx context.Context, login, password string) (*models.User, string, error) {
	args := s.Called(ctx, login, password)
	user, _ := args.Get(0).(*models.User)
	token, _ := args.Get(1).(string)
	return user, token, args.Error(2)
}

func (s *MockUserService) Profile(ctx context.Context, id string) (*models.User, error) {
	args := s.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (s *MockUserService) AddFavorite(ctx context.Context, userID, toolID string) ([]models.Favorite, error) {
	args := s.Called(ctx, userID, toolID)
	favorites, _ := args.Get(0).([]models.Favorite)
	return favorites, args.Error(1)
}

func (s *MockUserService) RemoveFavorite(ctx context.Context, userID, toolID string) ([]models.Favorite, error) {
	args := s.Called(ctx, userID, toolID)
	favorites, _ := args.Get(0).([]models.Favorite)
	return favorites, args.Error(1)
}

func (s *MockUserService) Favorites(ctx context.Context, userID string) ([]service.FavoriteTool, error) {
	args := s.Called(ctx, userID)
	favorites, _ := args.Get(0).([]service.FavoriteTool)
	return favorites, args.Error(1)
}

func (s *MockUserService) UpdatePreferences(ctx context.Context, userID, theme, language string) (*models.Preferences, error) {
	args := s.Called(ctx, userID, theme, language)
	prefs, _ := args.Get(0).(*models.Preferences)
	return prefs, args.Error(1)
}

func (s *MockUserService) VerifyToken(token string) (string, error) {
	args := s.Called(token)
	userID, _ := args.Get(0).(string)
	return userID, args.Error(1)
}

type MockInspectorService struct {
	mock.Mock
}

func (s *MockInspectorService) Inspect(ctx context.Context, target string) (*inspector.Report, error) {
	args := s.Called(ctx, target)
	report, _ := args.Get(0).(*inspector.Report)
	return report, args.Error(1)
}

func (s *MockInspectorService) QuickCheck(ctx context.Context, target string) (*inspector.QuickReport, error) {
	args := s.Called(ctx, target)
	report, _ := args.Get(0).(*inspector.QuickReport)
	return report, args.Error(1)
}

type HandlersTestSuite struct {
	suite.Suite
	logger        *httplog.Logger
	catalogMock   *MockCatalogService
	shortenerMock *MockShortenerService
	analyticsMock *MockAnalyticsService
	userMock      *MockUserService
	inspectorMock *MockInspectorService
	server        *httptest.Server
	e             *httpexpect.Expect
}

func (suite *HandlersTestSuite) SetupSuite() {
	suite.logger = httplog.NewLogger("", httplog.Options{Writer: io.Discard})
}

func (suite *HandlersTestSuite) SetupSubTest() {
	suite.catalogMock = new(MockCatalogService)
	suite.shortenerMock = new(MockShortenerService)
	suite.analyticsMock = new(MockAnalyticsService)
	suite.userMock = new(MockUserService)
	suite.inspectorMock = new(MockInspectorService)

	router := NewRouter(RouterOptions{
		Logger:    suite.logger,
		Catalog:   suite.catalogMock,
		Shortener: suite.shortenerMock,
		Analytics: suite.analyticsMock,
		Users:     suite.userMock,
		Inspector: suite.inspectorMock,
		Healthy:   func() bool { return false },
	})
	suite.server = httptest.NewServer(router)

	suite.e = httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  suite.server.URL,
		Reporter: httpexpect.NewAssertReporter(suite.T()),
		Client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	})
}

func (suite *HandlersTestSuite) TearDownSubTest() {
	suite.catalogMock.AssertExpectations(suite.T())
	suite.shortenerMock.AssertExpectations(suite.T())
	suite.analyticsMock.AssertExpectations(suite.T())
	suite.userMock.AssertExpectations(suite.T())
	suite.inspectorMock.AssertExpectations(suite.T())
	suite.server.Close()
}

func (suite *HandlersTestSuite) TestHealthz() {
	suite.Run("reports fallback datastore", func() {
		suite.e.GET("/healthz").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("status", "ok").
			HasValue("datastore", "fallback")
	})
}

func (suite *HandlersTestSuite) TestListTools() {
	const path = "/api/tools"

	suite.Run("passes query parameters through", func() {
		suite.catalogMock.
			On("ListTools", mock.Anything, service.ListToolsParams{
				Category: models.CategoryText,
				Search:   "counter",
				Page:     2,
				Limit:    5,
			}).
			Once().
			Return(&service.ToolPage{
				Tools:       []models.Tool{{ID: "3", Name: "Word Counter", IsActive: true}},
				Total:       6,
				TotalPages:  2,
				CurrentPage: 2,
			}, nil)

		suite.e.GET(path).
			WithQuery("category", models.CategoryText).
			WithQuery("search", "counter").
			WithQuery("page", 2).
			WithQuery("limit", 5).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			Value("data").Object().
			HasValue("total", 6).
			HasValue("currentPage", 2)
	})

	suite.Run("server error", func() {
		suite.catalogMock.
			On("ListTools", mock.Anything, mock.Anything).
			Once().
			Return(nil, errors.New("unknown error"))

		suite.e.GET(path).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.ServerErrorResponse.Message)
	})
}

func (suite *HandlersTestSuite) TestGetTool() {
	suite.Run("not found", func() {
		suite.catalogMock.
			On("GetToolByID", mock.Anything, "999").
			Once().
			Return(nil, database.ErrToolNotFound)

		suite.e.GET("/api/tools/999").
			Expect().
			Status(http.StatusNotFound).
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.ResourceNotFoundResponse.Message)
	})

	suite.Run("invalid id", func() {
		suite.catalogMock.
			On("GetToolByID", mock.Anything, "zzz").
			Once().
			Return(nil, database.ErrInvalidID)

		suite.e.GET("/api/tools/zzz").
			Expect().
			Status(http.StatusBadRequest)
	})

	suite.Run("success", func() {
		suite.catalogMock.
			On("GetToolByID", mock.Anything, "1").
			Once().
			Return(&models.Tool{ID: "1", Name: "Password Generator", IsActive: true}, nil)

		suite.e.GET("/api/tools/1").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			Value("data").Object().
			HasValue("name", "Password Generator")
	})
}

func (suite *HandlersTestSuite) TestPopularTools() {
	suite.Run("invalid limit", func() {
		suite.e.GET("/api/tools/popular/abc").
			Expect().
			Status(http.StatusBadRequest)
	})

	suite.Run("default limit", func() {
		suite.catalogMock.
			On("PopularTools", mock.Anything, 0).
			Once().
			Return([]models.Tool{{ID: "1"}}, nil)

		suite.e.GET("/api/tools/popular").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Array().Length().IsEqual(1)
	})

	suite.Run("explicit limit", func() {
		suite.catalogMock.
			On("PopularTools", mock.Anything, 3).
			Once().
			Return([]models.Tool{{ID: "1"}, {ID: "2"}, {ID: "3"}}, nil)

		suite.e.GET("/api/tools/popular/3").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Array().Length().IsEqual(3)
	})
}

func (suite *HandlersTestSuite) TestRecordUsage() {
	suite.Run("success", func() {
		suite.catalogMock.
			On("RecordUsage", mock.Anything, "1").
			Once().
			Return(&models.Tool{ID: "1", Popularity: 121, IsActive: true}, nil)

		suite.e.POST("/api/tools/record-usage/1").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("popularity", 121)
	})
}

func (suite *HandlersTestSuite) TestShortenURL() {
	const path = "/api/urls/shorten"

	suite.Run("empty request body", func() {
		suite.e.POST(path).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.EmptyRequestBodyResponse.Message)
	})

	suite.Run("validation error", func() {
		suite.e.POST(path).
			WithJSON(map[string]string{"longUrl": "not a url"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("status", response.StatusError).
			ContainsKey("details")
	})

	suite.Run("custom code conflict", func() {
		suite.shortenerMock.
			On("Shorten", mock.Anything, "https://example.com", "taken", "").
			Once().
			Return(nil, database.ErrShortCodeExists)

		suite.e.POST(path).
			WithJSON(map[string]string{
				"longUrl":    "https://example.com",
				"customCode": "taken",
			}).
			Expect().
			Status(http.StatusConflict).
			JSON().Object().
			HasValue("status", response.StatusError)
	})

	suite.Run("code space exhausted", func() {
		suite.shortenerMock.
			On("Shorten", mock.Anything, "https://example.com", "", "").
			Once().
			Return(nil, service.ErrMaxRetriesExceeded)

		suite.e.POST(path).
			WithJSON(map[string]string{"longUrl": "https://example.com"}).
			Expect().
			Status(http.StatusServiceUnavailable)
	})

	suite.Run("success", func() {
		suite.shortenerMock.
			On("Shorten", mock.Anything, "https://example.com", "", "").
			Once().
			Return(&models.ShortURL{
				ID:        "1",
				LongURL:   "https://example.com",
				ShortCode: "abc123",
				ShortURL:  "http://localhost:8080/s/abc123",
				CreatedAt: time.Now(),
				IsActive:  true,
			}, nil)

		suite.e.POST(path).
			WithJSON(map[string]string{"longUrl": "https://example.com"}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			Value("data").Object().
			HasValue("shortCode", "abc123").
			HasValue("originalUrl", "https://example.com").
			NotContainsKey("expiresAt")
	})
}

func (suite *HandlersTestSuite) TestRedirect() {
	suite.Run("not found", func() {
		suite.shortenerMock.
			On("Resolve", mock.Anything, "missing").
			Once().
			Return(nil, database.ErrURLNotFound)

		suite.e.GET("/s/missing").
			Expect().
			Status(http.StatusNotFound)
	})

	suite.Run("redirects to the long url", func() {
		suite.shortenerMock.
			On("Resolve", mock.Anything, "abc123").
			Once().
			Return(&models.ShortURL{ShortCode: "abc123", LongURL: "https://example.com", IsActive: true}, nil)

		suite.e.GET("/s/abc123").
			Expect().
			Status(http.StatusFound).
			Header("Location").IsEqual("https://example.com")
	})
}

func (suite *HandlersTestSuite) TestURLStats() {
	suite.Run("success without internal id", func() {
		suite.shortenerMock.
			On("Stats", mock.Anything, "abc123").
			Once().
			Return(&models.ShortURL{
				ID:        "65f1a0c2d4e8b9a001234567",
				LongURL:   "https://example.com",
				ShortCode: "abc123",
				Clicks:    42,
				IsActive:  true,
			}, nil)

		suite.e.GET("/api/urls/stats/abc123").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("clicks", 42).
			HasValue("originalUrl", "https://example.com").
			NotContainsKey("id")
	})
}

func (suite *HandlersTestSuite) TestDeactivateURL() {
	suite.Run("not found", func() {
		suite.shortenerMock.
			On("Deactivate", mock.Anything, "missing").
			Once().
			Return(database.ErrURLNotFound)

		suite.e.DELETE("/api/urls/missing").
			Expect().
			Status(http.StatusNotFound)
	})

	suite.Run("success", func() {
		suite.shortenerMock.
			On("Deactivate", mock.Anything, "abc123").
			Once().
			Return(nil)

		suite.e.DELETE("/api/urls/abc123").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("status", response.StatusSuccess)
	})
}

func (suite *HandlersTestSuite) TestRegister() {
	const path = "/api/users/register"

	suite.Run("validation error", func() {
		suite.e.POST(path).
			WithJSON(map[string]string{
				"username": "al",
				"email":    "not an email",
				"password": "short",
			}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			ContainsKey("details")
	})

	suite.Run("duplicate account", func() {
		suite.userMock.
			On("Register", mock.Anything, "alice", "alice@example.com", "s3cret-pass").
			Once().
			Return(nil, "", database.ErrUserExists)

		suite.e.POST(path).
			WithJSON(map[string]string{
				"username": "alice",
				"email":    "alice@example.com",
				"password": "s3cret-pass",
			}).
			Expect().
			Status(http.StatusConflict)
	})

	suite.Run("success", func() {
		suite.userMock.
			On("Register", mock.Anything, "alice", "alice@example.com", "s3cret-pass").
			Once().
			Return(&models.User{ID: "u1", Username: "alice", Email: "alice@example.com"}, "token-123", nil)

		suite.e.POST(path).
			WithJSON(map[string]string{
				"username": "alice",
				"email":    "alice@example.com",
				"password": "s3cret-pass",
			}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object().
			Value("data").Object().
			HasValue("token", "token-123")
	})
}

func (suite *HandlersTestSuite) TestLogin() {
	const path = "/api/users/login"

	suite.Run("invalid credentials", func() {
		suite.userMock.
			On("Login", mock.Anything, "alice", "wrong-pass").
			Once().
			Return(nil, "", service.ErrInvalidCredentials)

		suite.e.POST(path).
			WithJSON(map[string]string{
				"username": "alice",
				"password": "wrong-pass",
			}).
			Expect().
			Status(http.StatusUnauthorized).
			JSON().Object().
			HasValue("message", response.UnauthorizedResponse.Message)
	})

	suite.Run("success", func() {
		suite.userMock.
			On("Login", mock.Anything, "alice", "s3cret-pass").
			Once().
			Return(&models.User{ID: "u1", Username: "alice"}, "token-123", nil)

		suite.e.POST(path).
			WithJSON(map[string]string{
				"username": "alice",
				"password": "s3cret-pass",
			}).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("token", "token-123")
	})
}

func (suite *HandlersTestSuite) TestFavorites() {
	suite.Run("duplicate favorite", func() {
		suite.userMock.
			On("AddFavorite", mock.Anything, "u1", "1").
			Once().
			Return(nil, database.ErrFavoriteExists)

		suite.e.POST("/api/users/favorites/u1/1").
			Expect().
			Status(http.StatusConflict)
	})

	suite.Run("add favorite", func() {
		suite.userMock.
			On("AddFavorite", mock.Anything, "u1", "1").
			Once().
			Return([]models.Favorite{{ToolID: "1", AddedAt: time.Now()}}, nil)

		suite.e.POST("/api/users/favorites/u1/1").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Array().Length().IsEqual(1)
	})

	suite.Run("list favorites joined with tool metadata", func() {
		suite.userMock.
			On("Favorites", mock.Anything, "u1").
			Once().
			Return([]service.FavoriteTool{{
				ToolID:  "1",
				Name:    "Password Generator",
				AddedAt: time.Now(),
			}}, nil)

		suite.e.GET("/api/users/favorites/u1").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Array().Value(0).Object().
			HasValue("name", "Password Generator")
	})

	suite.Run("remove favorite", func() {
		suite.userMock.
			On("RemoveFavorite", mock.Anything, "u1", "1").
			Once().
			Return([]models.Favorite{}, nil)

		suite.e.DELETE("/api/users/favorites/u1/1").
			Expect().
			Status(http.StatusOK)
	})
}

func (suite *HandlersTestSuite) TestUpdatePreferences() {
	const path = "/api/users/preferences/u1"

	suite.Run("missing token", func() {
		suite.e.PUT(path).
			WithJSON(map[string]string{"theme": "dark"}).
			Expect().
			Status(http.StatusUnauthorized)
	})

	suite.Run("invalid token", func() {
		suite.userMock.
			On("VerifyToken", "bad-token").
			Once().
			Return("", errors.New("invalid token"))

		suite.e.PUT(path).
			WithHeader("X-Auth-Token", "bad-token").
			WithJSON(map[string]string{"theme": "dark"}).
			Expect().
			Status(http.StatusUnauthorized)
	})

	suite.Run("token for another user", func() {
		suite.userMock.
			On("VerifyToken", "token-123").
			Once().
			Return("u2", nil)

		suite.e.PUT(path).
			WithHeader("X-Auth-Token", "token-123").
			WithJSON(map[string]string{"theme": "dark"}).
			Expect().
			Status(http.StatusUnauthorized)
	})

	suite.Run("success", func() {
		suite.userMock.
			On("VerifyToken", "token-123").
			Once().
			Return("u1", nil)
		suite.userMock.
			On("UpdatePreferences", mock.Anything, "u1", "dark", "").
			Once().
			Return(&models.Preferences{Theme: "dark", Language: "en"}, nil)

		suite.e.PUT(path).
			WithHeader("X-Auth-Token", "token-123").
			WithJSON(map[string]string{"theme": "dark"}).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("theme", "dark")
	})
}

func (suite *HandlersTestSuite) TestTrackEvent() {
	const path = "/api/analytics/track"

	suite.Run("missing ip", func() {
		suite.e.POST(path).
			WithJSON(map[string]string{"action": "view"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("status", response.StatusError).
			ContainsKey("details")
	})

	suite.Run("unrecognized action is still recorded", func() {
		suite.analyticsMock.
			On("Track", mock.Anything, mock.MatchedBy(func(p service.TrackParams) bool {
				return p.Action == "teleport" && p.IP == "10.0.0.1"
			})).
			Once().
			Return(&models.Event{ID: "e1", EventType: "view"}, int64(4), nil)

		suite.e.POST(path).
			WithJSON(map[string]string{
				"action": "teleport",
				"ip":     "10.0.0.1",
			}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object().
			Value("data").Object().
			HasValue("totalVisits", 4)
	})

	suite.Run("success", func() {
		suite.analyticsMock.
			On("Track", mock.Anything, mock.MatchedBy(func(p service.TrackParams) bool {
				return p.ToolID == "1" && p.Action == "use" && p.IP == "10.0.0.1" && p.UserAgent != ""
			})).
			Once().
			Return(&models.Event{ID: "e1", EventType: "use"}, int64(10), nil)

		suite.e.POST(path).
			WithJSON(map[string]string{
				"toolId": "1",
				"action": "use",
				"ip":     "10.0.0.1",
			}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object().
			Value("data").Object().
			HasValue("totalVisits", 10)
	})
}

func (suite *HandlersTestSuite) TestAnalyticsReports() {
	suite.Run("overview", func() {
		suite.analyticsMock.
			On("GetOverview", mock.Anything).
			Once().
			Return(&service.Overview{TotalVisits: 100, TodayVisits: 5}, nil)

		suite.e.GET("/api/analytics").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("totalVisits", 100).
			HasValue("todayVisits", 5)
	})

	suite.Run("weekly summary", func() {
		suite.analyticsMock.
			On("GetWeeklySummary", mock.Anything).
			Once().
			Return(&service.RangeSummary{
				Period:      "Last 7 days",
				TotalVisits: 7,
				Data: []service.BucketCount{
					{Label: "Mon", Count: 7},
				},
			}, nil)

		suite.e.GET("/api/analytics/weekly").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("period", "Last 7 days")
	})

	suite.Run("engagement", func() {
		suite.analyticsMock.
			On("GetEngagement", mock.Anything).
			Once().
			Return(&service.Engagement{ReturningUsers: 3}, nil)

		suite.e.GET("/api/analytics/engagement").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("returningUsers", 3)
	})

	suite.Run("tool summary", func() {
		suite.analyticsMock.
			On("GetToolSummary", mock.Anything, "1").
			Once().
			Return(&service.ToolSummary{ToolID: "1", TotalUses: 12}, nil)

		suite.e.GET("/api/analytics/tools/1").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("totalUses", 12)
	})
}

func (suite *HandlersTestSuite) TestAnalyzeURL() {
	const path = "/api/url-analyzer/analyze"

	suite.Run("validation error", func() {
		suite.e.POST(path).
			WithJSON(map[string]string{"url": "not a url"}).
			Expect().
			Status(http.StatusBadRequest)
	})

	suite.Run("unreachable target", func() {
		suite.inspectorMock.
			On("Inspect", mock.Anything, "https://example.com").
			Once().
			Return(nil, errors.New("connection refused"))

		suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusBadGateway)
	})

	suite.Run("success", func() {
		suite.inspectorMock.
			On("Inspect", mock.Anything, "https://example.com").
			Once().
			Return(&inspector.Report{
				URL:        "https://example.com",
				FinalURL:   "https://example.com",
				StatusCode: http.StatusOK,
			}, nil)

		suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("finalUrl", "https://example.com")
	})
}

func (suite *HandlersTestSuite) TestQuickCheck() {
	const path = "/api/url-analyzer/quick-check"

	suite.Run("success", func() {
		suite.inspectorMock.
			On("QuickCheck", mock.Anything, "https://example.com").
			Once().
			Return(&inspector.QuickReport{
				URL:        "https://example.com",
				Reachable:  true,
				StatusCode: http.StatusOK,
			}, nil)

		suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("reachable", true)
	})
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
