package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/quota"
)

type SearchUseCase struct {
	profileRepo repository.ProfileRepository
}

func NewSearchUseCase(profileRepo repository.ProfileRepository) *SearchUseCase {
	return &SearchUseCase{profileRepo: profileRepo}
}

// SearchRequest carries the filters as submitted by the client. They are
// clamped to the viewer's entitlements before touching the repository, so a
// crafted request can never widen a freemium search.
type SearchRequest struct {
	Country     *string   `form:"country"`
	Ethnicity   []string  `form:"ethnicity"`
	Sect        *string   `form:"sect"`
	MinHeightCm *int      `form:"min_height_cm" binding:"omitempty,min=90,max=250"`
	MaxHeightCm *int      `form:"max_height_cm" binding:"omitempty,min=90,max=250"`
	MinAge      *int      `form:"min_age" binding:"omitempty,min=18,max=65"`
	MaxAge      *int      `form:"max_age" binding:"omitempty,min=18,max=65"`
	Limit       int       `form:"limit" binding:"omitempty,min=1,max=50"`
	Offset      int       `form:"offset" binding:"omitempty,min=0"`
}

// Search runs a filtered, sorted profile query. No ranking.
func (uc *SearchUseCase) Search(ctx context.Context, viewerID uuid.UUID, req *SearchRequest) ([]*domain.Profile, error) {
	viewer, err := uc.profileRepo.GetByAccountID(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer profile: %w", err)
	}

	entitlements := quota.Entitlements(viewer)

	filters := repository.SearchFilters{
		MinAge: req.MinAge,
		MaxAge: req.MaxAge,
	}

	// Matrimony search targets the opposite gender.
	switch viewer.Gender {
	case domain.GenderMale:
		g := domain.GenderFemale
		filters.Gender = &g
	case domain.GenderFemale:
		g := domain.GenderMale
		filters.Gender = &g
	default:
		return []*domain.Profile{}, nil
	}

	if entitlements.Country.Adjustable {
		filters.Country = req.Country
	} else {
		// Freemium: pinned to the home country. An unknown home country
		// must not widen to "any country", so the search yields nothing
		// until the profile sets one.
		if entitlements.Country.Value == "" {
			return []*domain.Profile{}, nil
		}
		country := entitlements.Country.Value
		filters.Country = &country
	}

	if entitlements.Ethnicity {
		filters.Ethnicity = req.Ethnicity
	}
	if entitlements.Sect {
		filters.Sect = req.Sect
	}
	if entitlements.Height {
		filters.MinHeightCm = req.MinHeightCm
		filters.MaxHeightCm = req.MaxHeightCm
	}

	limit := req.Limit
	if limit == 0 {
		limit = 20
	}

	return uc.profileRepo.Search(ctx, filters, limit, req.Offset)
}
