package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NikkahFirst/mobile-app-sub000/internal/delivery/http/middleware"
	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/gate"
)

type GateHandler struct {
	gateUseCase   *gate.GateUseCase
	sessionExpiry time.Duration
}

func NewGateHandler(gateUseCase *gate.GateUseCase, sessionExpiry time.Duration) *GateHandler {
	return &GateHandler{gateUseCase: gateUseCase, sessionExpiry: sessionExpiry}
}

// EvaluateRequest represents a gate evaluation for a destination path
type EvaluateRequest struct {
	Path         string  `json:"path" binding:"required"`
	ReferralCode *string `json:"referral_code" binding:"omitempty,max=64"`
}

// Evaluate runs the gate rule chain for the requested destination. Every
// error branch names a recovery action; there are no dead ends.
func (h *GateHandler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var session *gate.SessionState
	if info, ok := middleware.SessionFrom(c); ok {
		session = &gate.SessionState{SessionID: info.SessionID, AccountID: info.AccountID}
	}

	decision, err := h.gateUseCase.Evaluate(c.Request.Context(), session, req.Path, req.ReferralCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionExpired):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "session expired",
				"code":    "session_expired",
				"actions": []string{"reauthenticate", "sign_out"},
			})
		case errors.Is(err, domain.ErrProfileUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "profile temporarily unavailable",
				"code":    "profile_unavailable",
				"actions": []string{"retry", "force_sign_out"},
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "gate evaluation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, decision)
}

// CompleteRemediation marks a fix step complete for this session
func (h *GateHandler) CompleteRemediation(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	step := domain.RemediationStep(c.Param("step"))
	state := &gate.SessionState{SessionID: session.SessionID, AccountID: session.AccountID}

	if err := h.gateUseCase.CompleteRemediation(c.Request.Context(), state, step, h.sessionExpiry); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown remediation step"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to record remediation step"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "remediation step recorded"})
}
