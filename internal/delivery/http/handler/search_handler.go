package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NikkahFirst/mobile-app-sub000/internal/delivery/http/middleware"
	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/quota"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/search"
)

type SearchHandler struct {
	searchUseCase *search.SearchUseCase
	quotaUseCase  *quota.QuotaUseCase
}

func NewSearchHandler(searchUseCase *search.SearchUseCase, quotaUseCase *quota.QuotaUseCase) *SearchHandler {
	return &SearchHandler{searchUseCase: searchUseCase, quotaUseCase: quotaUseCase}
}

// Search runs an entitlement-clamped profile search
func (h *SearchHandler) Search(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req search.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid search filters"})
		return
	}

	profiles, err := h.searchUseCase.Search(c.Request.Context(), session.AccountID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

// Entitlements returns the viewer's search-filter entitlements
func (h *SearchHandler) Entitlements(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	entitlements, err := h.quotaUseCase.FilterEntitlements(c.Request.Context(), session.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load entitlements"})
		return
	}

	c.JSON(http.StatusOK, entitlements)
}

// Quota returns the viewer's remaining daily views without consuming one
func (h *SearchHandler) Quota(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	remaining, err := h.quotaUseCase.Remaining(c.Request.Context(), session.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to read quota"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}
