package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
)

const (
	// AgeFilterMin and AgeFilterMax bound the adjustable age-range filter.
	AgeFilterMin = 18
	AgeFilterMax = 65
)

type QuotaUseCase struct {
	profileRepo    repository.ProfileRepository
	quotaStore     repository.QuotaStore
	dailyViewLimit int
	now            func() time.Time
}

func NewQuotaUseCase(
	profileRepo repository.ProfileRepository,
	quotaStore repository.QuotaStore,
	dailyViewLimit int,
) *QuotaUseCase {
	return &QuotaUseCase{
		profileRepo:    profileRepo,
		quotaStore:     quotaStore,
		dailyViewLimit: dailyViewLimit,
		now:            time.Now,
	}
}

// CheckAndConsume applies the freemium daily view cap. Subscribed and
// lifetime tiers are unlimited. The check-and-increment is one atomic
// server-side operation; at or above the cap nothing is incremented and the
// profile content must not be shown.
func (uc *QuotaUseCase) CheckAndConsume(ctx context.Context, viewerID uuid.UUID) (*domain.QuotaResult, error) {
	profile, err := uc.profileRepo.GetByAccountID(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer profile: %w", err)
	}

	if profile.SubscriptionTier != domain.TierFreemium {
		return &domain.QuotaResult{Allowed: true, Remaining: -1}, nil
	}

	return uc.quotaStore.CheckAndConsume(ctx, viewerID, uc.now(), uc.dailyViewLimit)
}

// Remaining reports the viewer's remaining daily views without consuming one.
func (uc *QuotaUseCase) Remaining(ctx context.Context, viewerID uuid.UUID) (int, error) {
	profile, err := uc.profileRepo.GetByAccountID(ctx, viewerID)
	if err != nil {
		return 0, fmt.Errorf("failed to load viewer profile: %w", err)
	}

	if profile.SubscriptionTier != domain.TierFreemium {
		return -1, nil
	}

	return uc.quotaStore.Remaining(ctx, viewerID, uc.now(), uc.dailyViewLimit)
}

// FilterEntitlements describes which search filters the viewer may adjust.
func (uc *QuotaUseCase) FilterEntitlements(ctx context.Context, viewerID uuid.UUID) (*domain.FilterSet, error) {
	profile, err := uc.profileRepo.GetByAccountID(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer profile: %w", err)
	}
	return Entitlements(profile), nil
}

// Entitlements is the pure tier-to-filters mapping. Freemium viewers get the
// country filter pinned to their home country; when the home country is not
// yet set the filter stays unset and disabled rather than widening to "any".
func Entitlements(profile *domain.Profile) *domain.FilterSet {
	age := domain.AgeFilter{Adjustable: true, Min: AgeFilterMin, Max: AgeFilterMax}

	if profile.SubscriptionTier != domain.TierFreemium {
		return &domain.FilterSet{
			Country:   domain.CountryFilter{Adjustable: true},
			Ethnicity: true,
			Sect:      true,
			Height:    true,
			Age:       age,
		}
	}

	country := domain.CountryFilter{Adjustable: false}
	if profile.Country != nil {
		country.Value = *profile.Country
	}

	return &domain.FilterSet{
		Country:   country,
		Ethnicity: false,
		Sect:      false,
		Height:    false,
		Age:       age,
	}
}
