package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pilateslab/catalog/internal/users"
)

type loginRequestPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResponsePayload struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	TokenType string      `json:"token_type"`
	User      userPayload `json:"user"`
}

func userToPayload(user users.User) userPayload {
	return userPayload{ID: user.ID, Email: user.Email, Role: user.Role}
}

func (h *httpHandler) handleLogin(c *gin.Context) {
	var request loginRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil ||
		strings.TrimSpace(request.Email) == "" || request.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), request.Email, request.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if err != nil {
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login_failed"})
		return
	}

	token, expiresIn, err := h.tokens.IssueToken(c.Request.Context(), user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
		return
	}

	c.JSON(http.StatusOK, loginResponsePayload{
		Token:     token,
		ExpiresIn: expiresIn,
		TokenType: "Bearer",
		User:      userToPayload(user),
	})
}

func (h *httpHandler) handleMe(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), claims.Subject)
	if errors.Is(err, users.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		h.logger.Error("profile lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_lookup_failed"})
		return
	}

	c.JSON(http.StatusOK, userToPayload(user))
}

type createUserRequestPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *httpHandler) handleCreateUser(c *gin.Context) {
	var request createUserRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil ||
		strings.TrimSpace(request.Email) == "" || request.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), request.Email, request.Password, request.Role)
	if errors.Is(err, users.ErrEmailTaken) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a user with this email already exists"})
		return
	}
	if errors.Is(err, users.ErrInvalidRole) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	if err != nil {
		h.logger.Error("user creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_create_failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userToPayload(user)})
}

func (h *httpHandler) handleListUsers(c *gin.Context) {
	accounts, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error("user listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_list_failed"})
		return
	}

	payload := make([]userPayload, 0, len(accounts))
	for _, account := range accounts {
		payload = append(payload, userToPayload(account))
	}
	c.JSON(http.StatusOK, payload)
}

func (h *httpHandler) handleDeleteUser(c *gin.Context) {
	claims, _ := requestClaims(c)

	err := h.users.Delete(c.Request.Context(), claims.Subject, c.Param("id"))
	if errors.Is(err, users.ErrSelfDelete) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}
	if errors.Is(err, users.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		h.logger.Error("user deletion failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_delete_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
