package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
)

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
}

func NewProfileUseCase(profileRepo repository.ProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{profileRepo: profileRepo}
}

// CreateProfileRequest represents the signup-continue step
type CreateProfileRequest struct {
	Gender domain.Gender `json:"gender" binding:"required,oneof=male female affiliate"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	FirstName          *string   `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName           *string   `json:"last_name" binding:"omitempty,min=1,max=100"`
	BirthDate          *string   `json:"birth_date" binding:"omitempty"` // YYYY-MM-DD
	GuardianName       *string   `json:"guardian_name" binding:"omitempty,max=200"`
	GuardianPhone      *string   `json:"guardian_phone" binding:"omitempty,max=32"`
	Photos             *[]string `json:"photos" binding:"omitempty,max=6"`
	PhotosOptOut       *bool     `json:"photos_opt_out"`
	Country            *string   `json:"country" binding:"omitempty,max=100"`
	Ethnicity          *[]string `json:"ethnicity" binding:"omitempty,max=5"`
	Sect               *string   `json:"sect" binding:"omitempty,max=50"`
	HeightCm           *int      `json:"height_cm" binding:"omitempty,min=90,max=250"`
	PreferredCountries *[]string `json:"preferred_countries" binding:"omitempty,max=10"`
}

// GetMyProfile returns the caller's profile
func (uc *ProfileUseCase) GetMyProfile(ctx context.Context, accountID uuid.UUID) (*domain.Profile, error) {
	return uc.profileRepo.GetByAccountID(ctx, accountID)
}

// CreateProfile creates the profile record at the signup-continue step
func (uc *ProfileUseCase) CreateProfile(ctx context.Context, accountID uuid.UUID, req *CreateProfileRequest) (*domain.Profile, error) {
	existing, err := uc.profileRepo.GetByAccountID(ctx, accountID)
	if err == nil && existing != nil {
		return nil, domain.ErrProfileAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	profile := &domain.Profile{
		ID:               uuid.New(),
		AccountID:        accountID,
		Gender:           req.Gender,
		SubscriptionTier: domain.TierFreemium,
	}

	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile applies a partial update and refreshes the cached onboarding
// flag from the derived value.
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, accountID uuid.UUID, req *UpdateProfileRequest) (*domain.Profile, error) {
	profile, err := uc.profileRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		profile.FirstName = req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = req.LastName
	}
	if req.BirthDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		profile.BirthDate = &parsed
	}
	if req.GuardianName != nil {
		profile.GuardianName = req.GuardianName
	}
	if req.GuardianPhone != nil {
		profile.GuardianPhone = req.GuardianPhone
	}
	if req.Photos != nil {
		profile.Photos = *req.Photos
	}
	if req.PhotosOptOut != nil {
		profile.PhotosOptOut = *req.PhotosOptOut
	}
	if req.Country != nil {
		profile.Country = req.Country
	}
	if req.Ethnicity != nil {
		profile.Ethnicity = *req.Ethnicity
	}
	if req.Sect != nil {
		profile.Sect = req.Sect
	}
	if req.HeightCm != nil {
		profile.HeightCm = req.HeightCm
	}
	if req.PreferredCountries != nil {
		profile.PreferredCountries = *req.PreferredCountries
	}

	// The stored flag is a cache of the derived value; refresh it on every
	// write so it cannot drift far.
	profile.OnboardingComplete = profile.ComputeOnboardingComplete()

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}
