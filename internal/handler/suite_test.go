package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/inkpress/internal/handler"
	"github.com/inkpress/inkpress/internal/middleware"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/internal/service"
	"github.com/inkpress/inkpress/internal/testutil"
	"github.com/inkpress/inkpress/internal/utils"
	"github.com/inkpress/inkpress/pkg/logger"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-key"

// testEnv wires the full handler stack onto an in-memory sqlite database,
// mirroring the route table in cmd/server.
type testEnv struct {
	db     *gorm.DB
	testDB *testutil.TestDatabase
	router *gin.Engine
}

func setupEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)
	if logger.Log == nil {
		if err := logger.Init(false); err != nil {
			t.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	testDB := testutil.SetupTestDatabase(t)

	userRepo := repository.NewUserRepository(testDB.DB)
	postRepo := repository.NewPostRepository(testDB.DB)
	tagRepo := repository.NewTagRepository(testDB.DB)
	commentRepo := repository.NewCommentRepository(testDB.DB)
	interactionRepo := repository.NewInteractionRepository(testDB.DB)

	authService := service.NewAuthService(userRepo, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	postService := service.NewPostService(postRepo, tagRepo, commentRepo, interactionRepo)
	commentService := service.NewCommentService(commentRepo, postRepo)
	tagService := service.NewTagService(tagRepo, postRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService, postService)
	postHandler := handler.NewPostHandler(postService, commentService)
	commentHandler := handler.NewCommentHandler(commentService)
	tagHandler := handler.NewTagHandler(tagService)

	router := gin.New()
	api := router.Group("/api")
	optionalAuth := middleware.OptionalAuthMiddleware(testJWTSecret)

	api.POST("/users/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	api.GET("/posts", optionalAuth, postHandler.List)
	api.GET("/posts/:id", optionalAuth, postHandler.Get)
	api.GET("/posts/:id/comments", optionalAuth, postHandler.Comments)
	api.GET("/tags", tagHandler.List)
	api.GET("/tags/:id", tagHandler.Get)
	api.GET("/tags/:id/posts", tagHandler.Posts)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(testJWTSecret))
	{
		protected.GET("/users/me", userHandler.Me)
		protected.GET("/users/:id/posts", userHandler.Posts)

		protected.POST("/posts", postHandler.Create)
		protected.PUT("/posts/:id", postHandler.Update)
		protected.DELETE("/posts/:id", postHandler.Delete)
		protected.POST("/posts/:id/like", postHandler.Like)
		protected.POST("/posts/:id/unlike", postHandler.Unlike)
		protected.POST("/posts/:id/share", postHandler.Share)
		protected.GET("/posts/:id/analytics", postHandler.Analytics)

		protected.POST("/comments", commentHandler.Create)
		protected.POST("/comments/:id/approve", commentHandler.Approve)
		protected.POST("/comments/:id/reject", commentHandler.Reject)

		protected.POST("/tags", tagHandler.Create)
		protected.PUT("/tags/:id", tagHandler.Update)
		protected.DELETE("/tags/:id", tagHandler.Delete)
	}

	return &testEnv{db: testDB.DB, testDB: testDB, router: router}
}

// createUser inserts a fixture user and returns it.
func (e *testEnv) createUser(t *testing.T, username string, role models.Role) *models.User {
	user, err := testutil.CreateTestUser(username, username+"@example.com", "Password123", role)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("Failed to insert test user: %v", err)
	}
	return user
}

// tokenFor mints a valid access token for user.
func (e *testEnv) tokenFor(t *testing.T, user *models.User) string {
	token, err := utils.GenerateToken(user, testJWTSecret, time.Hour, utils.TokenTypeAccess)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

// request performs an HTTP request against the test router. token and
// body may be empty/nil.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(b)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a JSON response body.
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}
