package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NikkahFirst/mobile-app-sub000/internal/delivery/http/middleware"
	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/auth"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

// AuthResponse is the response structure
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	Account   interface{} `json:"account"`
}

// Signup handles account creation
func (h *AuthHandler) Signup(c *gin.Context) {
	var req auth.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.authUseCase.Signup(c.Request.Context(), &req, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "signup failed"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Unix(),
		Account:   result.Account,
	})
}

// Login handles credential login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.authUseCase.Login(c.Request.Context(), &req, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "login failed"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Unix(),
		Account:   result.Account,
	})
}

// Logout invalidates the session and clears its remediation markers
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if strings.HasPrefix(token, "Bearer ") {
		token = token[7:]
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing authorization token"})
		return
	}

	if err := h.authUseCase.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "logout failed"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "logged out successfully"})
}

// Me returns the authenticated account
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	account, err := h.authUseCase.Account(c.Request.Context(), session.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":    account,
		"expires_at": session.ExpiresAt.Unix(),
	})
}

// DeleteMe removes the authenticated account and all of its sessions
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	if err := h.authUseCase.DeleteAccount(c.Request.Context(), session.AccountID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "account deleted"})
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}
