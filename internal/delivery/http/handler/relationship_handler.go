package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/NikkahFirst/mobile-app-sub000/internal/delivery/http/middleware"
	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/relationship"
)

type RelationshipHandler struct {
	relationshipUseCase *relationship.RelationshipUseCase
}

func NewRelationshipHandler(relationshipUseCase *relationship.RelationshipUseCase) *RelationshipHandler {
	return &RelationshipHandler{relationshipUseCase: relationshipUseCase}
}

func relationshipStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrCannotRequestSelf):
		return http.StatusBadRequest, "cannot target yourself"
	case errors.Is(err, domain.ErrRequestAlreadyExists):
		return http.StatusConflict, "an active request already exists for this pair"
	case errors.Is(err, domain.ErrAlreadyMatched):
		return http.StatusConflict, "pair is already matched"
	case errors.Is(err, domain.ErrRevealAlreadyExists):
		return http.StatusConflict, "a reveal request already exists for this pair"
	case errors.Is(err, domain.ErrRequestNotPending):
		return http.StatusConflict, "request is no longer pending"
	case errors.Is(err, domain.ErrMatchInactive):
		return http.StatusConflict, "match is no longer active"
	case errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrMatchNotFound),
		errors.Is(err, domain.ErrRevealNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "operation failed"
	}
}

// CreateRequestBody targets a subject account
type CreateRequestBody struct {
	AccountID uuid.UUID `json:"account_id" binding:"required"`
}

// Resolve returns the full relationship state for a pair
func (h *RelationshipHandler) Resolve(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	subjectID, err := uuid.Parse(c.Param("account_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account id"})
		return
	}

	state, err := h.relationshipUseCase.Resolve(c.Request.Context(), session.AccountID, subjectID)
	if err != nil {
		status, msg := relationshipStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, state)
}

// ListMatches returns the caller's active matches
func (h *RelationshipHandler) ListMatches(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	matches, err := h.relationshipUseCase.ActiveMatches(c.Request.Context(), session.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list matches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// CreateRequest opens a contact request
func (h *RelationshipHandler) CreateRequest(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	request, err := h.relationshipUseCase.CreateRequest(c.Request.Context(), session.AccountID, body.AccountID)
	if err != nil {
		status, msg := relationshipStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusCreated, request)
}

// AcceptRequest accepts a pending request, creating the match
func (h *RelationshipHandler) AcceptRequest(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	requestID, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request id"})
		return
	}

	match, err := h.relationshipUseCase.Accept(c.Request.Context(), requestID, session.AccountID)
	if err != nil {
		status, msg := relationshipStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, match)
}

// DeclineRequest declines a pending request
func (h *RelationshipHandler) DeclineRequest(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	requestID, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request id"})
		return
	}

	if err := h.relationshipUseCase.Decline(c.Request.Context(), requestID, session.AccountID); err != nil {
		status, msg := relationshipStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "request declined"})
}

// Unmatch deactivates a match
func (h *RelationshipHandler) Unmatch(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	matchID, err := uuid.Parse(c.Param("match_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid match id"})
		return
	}

	if err := h.relationshipUseCase.Unmatch(c.Request.Context(), matchID, session.AccountID); err != nil {
		status, msg := relationshipStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "unmatched"})
}

// SetPhotosHiddenBody toggles the pair-level photo override
type SetPhotosHiddenBody struct {
	Hidden *bool `json:"hidden" binding:"required"`
}

// SetPhotosHidden toggles photo visibility within a match
func (h *RelationshipHandler) SetPhotosHidden(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	matchID, err := uuid.Parse(c.Param("match_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid match id"})
		return
	}

	var body SetPhotosHiddenBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.relationshipUseCase.SetPhotosHidden(c.Request.Context(), matchID, session.AccountID, *body.Hidden); err != nil {
		status, msg := relationshipStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "photo visibility updated"})
}

// RequestReveal asks a subject to reveal photos
func (h *RelationshipHandler) RequestReveal(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	reveal, err := h.relationshipUseCase.RequestReveal(c.Request.Context(), session.AccountID, body.AccountID)
	if err != nil {
		status, msg := relationshipStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusCreated, reveal)
}

// RespondReveal approves or denies a pending reveal request
func (h *RelationshipHandler) RespondReveal(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	revealID, err := uuid.Parse(c.Param("reveal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid reveal id"})
		return
	}

	approve := c.Param("action") == "approve"
	if !approve && c.Param("action") != "deny" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown action"})
		return
	}

	if err := h.relationshipUseCase.RespondReveal(c.Request.Context(), revealID, session.AccountID, approve); err != nil {
		status, msg := relationshipStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "reveal request updated"})
}
