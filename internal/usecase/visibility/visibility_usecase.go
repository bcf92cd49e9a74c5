package visibility

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/relationship"
)

// Result is the single blur/reveal decision for a (viewer, subject) pair.
type Result struct {
	Blurred bool `json:"blurred"`
}

type VisibilityUseCase struct {
	profileRepo    repository.ProfileRepository
	relationshipUC *relationship.RelationshipUseCase
}

func NewVisibilityUseCase(
	profileRepo repository.ProfileRepository,
	relationshipUC *relationship.RelationshipUseCase,
) *VisibilityUseCase {
	return &VisibilityUseCase{
		profileRepo:    profileRepo,
		relationshipUC: relationshipUC,
	}
}

// Visibility decides whether subject's photos render unobscured for viewer.
// Rules apply in order and the first match wins; the default is deny.
func (uc *VisibilityUseCase) Visibility(ctx context.Context, viewerID, subjectID uuid.UUID) (*Result, error) {
	viewer, err := uc.profileRepo.GetByAccountID(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer profile: %w", err)
	}
	subject, err := uc.profileRepo.GetByAccountID(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subject profile: %w", err)
	}

	state, err := uc.relationshipUC.Resolve(ctx, viewerID, subjectID)
	if err != nil {
		return nil, err
	}

	return Decide(viewer, subject, state), nil
}

// Decide is the pure decision over already-resolved inputs.
func Decide(viewer, subject *domain.Profile, state *relationship.PairState) *Result {
	// Men's photos are always visible to women.
	if viewer.Gender == domain.GenderFemale && subject.Gender == domain.GenderMale {
		return &Result{Blurred: false}
	}

	// An active match decides next, including its photos-hidden override.
	// The override wins over any standing reveal grant.
	if state.Match != nil && state.Match.IsActive {
		return &Result{Blurred: state.Match.PhotosHidden}
	}

	// An approved reveal grant outside of a match.
	if state.Reveal != nil && state.Reveal.Status == domain.RevealApproved {
		return &Result{Blurred: false}
	}

	// Default deny.
	return &Result{Blurred: true}
}
