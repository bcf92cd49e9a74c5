package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NikkahFirst/mobile-app-sub000/internal/delivery/http/middleware"
	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/infrastructure/storage"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/profile"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/quota"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/visibility"
	"github.com/NikkahFirst/mobile-app-sub000/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase    *profile.ProfileUseCase
	quotaUseCase      *quota.QuotaUseCase
	visibilityUseCase *visibility.VisibilityUseCase
	storageService    storage.SignedURLService
}

func NewProfileHandler(
	profileUseCase *profile.ProfileUseCase,
	quotaUseCase *quota.QuotaUseCase,
	visibilityUseCase *visibility.VisibilityUseCase,
	storageService storage.SignedURLService,
) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase:    profileUseCase,
		quotaUseCase:      quotaUseCase,
		visibilityUseCase: visibilityUseCase,
		storageService:    storageService,
	}
}

// GetMyProfile returns the caller's profile
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	p, err := h.profileUseCase.GetMyProfile(c.Request.Context(), session.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// CreateProfile creates the profile at the signup-continue step
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req profile.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	p, err := h.profileUseCase.CreateProfile(c.Request.Context(), session.AccountID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrProfileAlreadyExists) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "profile already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create profile"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

// UpdateMyProfile applies a partial profile update
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req profile.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	p, err := h.profileUseCase.UpdateProfile(c.Request.Context(), session.AccountID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid field value"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

// ProfileViewResponse is a subject profile rendered for the viewer
type ProfileViewResponse struct {
	Profile   *domain.Profile `json:"profile"`
	Blurred   bool            `json:"blurred"`
	PhotoURLs []string        `json:"photo_urls,omitempty"`
	Remaining int             `json:"remaining"`
}

// ViewProfile opens a full profile detail view. The quota check completes
// before the visibility decision: a denied quota suppresses the detail view
// entirely rather than merely blurring it.
func (h *ProfileHandler) ViewProfile(c *gin.Context) {
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

	// The subject must exist before any quota is consumed; a mistyped id
	// must not burn one of the viewer's daily views.
	subject, err := h.profileUseCase.GetMyProfile(c.Request.Context(), subjectID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load profile"})
		return
	}

	quotaResult, err := h.quotaUseCase.CheckAndConsume(c.Request.Context(), session.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to check view quota"})
		return
	}
	if !quotaResult.Allowed {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "daily view limit reached",
			"code":      "quota_exceeded",
			"remaining": 0,
			"actions":   []string{"upgrade"},
		})
		return
	}

	result, err := h.visibilityUseCase.Visibility(c.Request.Context(), session.AccountID, subjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to evaluate visibility"})
		return
	}

	response := &ProfileViewResponse{
		Profile:   subject,
		Blurred:   result.Blurred,
		Remaining: quotaResult.Remaining,
	}

	// Signed URLs are minted only after an unobscured decision.
	if !result.Blurred && h.storageService != nil {
		for _, path := range subject.Photos {
			url, signErr := h.storageService.CreateTemporarySignedURL(c.Request.Context(), path)
			if signErr != nil {
				logger.Warn("failed to sign photo url",
					zap.String("subject_id", subjectID.String()),
					zap.Error(signErr))
				continue
			}
			response.PhotoURLs = append(response.PhotoURLs, url)
		}
	}

	c.JSON(http.StatusOK, response)
}

// Visibility returns only the blur decision for a subject
func (h *ProfileHandler) Visibility(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("account_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account id"})
		return
	}

	// Unauthenticated viewers always see blurred content.
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusOK, visibility.Result{Blurred: true})
		return
	}

	result, err := h.visibilityUseCase.Visibility(c.Request.Context(), session.AccountID, subjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to evaluate visibility"})
		return
	}

	c.JSON(http.StatusOK, result)
}
