package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pilateslab/catalog/internal/auth"
	"github.com/pilateslab/catalog/internal/exercises"
	"github.com/pilateslab/catalog/internal/users"
)

const claimsContextKey = "catalog_claims"

var (
	errMissingTokenManager     = errors.New("token manager dependency required")
	errMissingUsersService     = errors.New("users service dependency required")
	errMissingExercisesService = errors.New("exercises service dependency required")
	errInvalidAuthorization    = errors.New("authorization header missing or invalid")
)

// TokenManager issues and validates session tokens.
type TokenManager interface {
	IssueToken(ctx context.Context, subject, email, role string) (string, int64, error)
	ValidateToken(token string) (auth.Claims, error)
}

// Dependencies wires the HTTP layer to its collaborators.
type Dependencies struct {
	TokenManager     TokenManager
	UsersService     *users.Service
	ExercisesService *exercises.Service
	Logger           *zap.Logger
}

// NewHTTPHandler assembles the gin router for the catalog API.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.TokenManager == nil {
		return nil, errMissingTokenManager
	}
	if deps.UsersService == nil {
		return nil, errMissingUsersService
	}
	if deps.ExercisesService == nil {
		return nil, errMissingExercisesService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		tokens:    deps.TokenManager,
		users:     deps.UsersService,
		exercises: deps.ExercisesService,
		logger:    logger,
	}

	router.GET("/health", handler.handleHealth)
	router.POST("/auth/login", handler.handleLogin)

	protected := router.Group("/")
	protected.Use(handler.authorizeRequest)
	protected.GET("/auth/me", handler.handleMe)
	protected.GET("/exercises", handler.handleListExercises)
	protected.GET("/exercises/:id", handler.handleGetExercise)

	admin := protected.Group("/")
	admin.Use(handler.requireAdmin)
	admin.GET("/auth/users", handler.handleListUsers)
	admin.POST("/auth/users", handler.handleCreateUser)
	admin.DELETE("/auth/users/:id", handler.handleDeleteUser)
	admin.POST("/exercises/sync", handler.handleSync)

	return router, nil
}

type httpHandler struct {
	tokens    TokenManager
	users     *users.Service
	exercises *exercises.Service
	logger    *zap.Logger
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		h.logger.Warn("token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(claimsContextKey, claims)
	c.Next()
}

func (h *httpHandler) requireAdmin(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok || claims.Role != users.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}
	c.Next()
}

func requestClaims(c *gin.Context) (auth.Claims, bool) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}
