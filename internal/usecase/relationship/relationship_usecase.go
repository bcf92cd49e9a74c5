package relationship

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
	"github.com/NikkahFirst/mobile-app-sub000/pkg/logger"
)

type RelationshipUseCase struct {
	requestRepo repository.MatchRequestRepository
	matchRepo   repository.MatchRepository
	revealRepo  repository.PhotoRevealRepository
}

func NewRelationshipUseCase(
	requestRepo repository.MatchRequestRepository,
	matchRepo repository.MatchRepository,
	revealRepo repository.PhotoRevealRepository,
) *RelationshipUseCase {
	return &RelationshipUseCase{
		requestRepo: requestRepo,
		matchRepo:   matchRepo,
		revealRepo:  revealRepo,
	}
}

// PairState is the full relationship state for a (viewer, subject) pair. The
// two request directions are reported separately: the UI distinguishes "I
// requested them" from "they requested me".
type PairState struct {
	OutgoingRequest *domain.MatchRequest      `json:"outgoing_request,omitempty"`
	IncomingRequest *domain.MatchRequest      `json:"incoming_request,omitempty"`
	Match           *domain.Match             `json:"match,omitempty"`
	Reveal          *domain.PhotoRevealRequest `json:"reveal,omitempty"`
}

// Resolve is a pure read-through over the pair's records; no side effects.
func (uc *RelationshipUseCase) Resolve(ctx context.Context, viewerID, subjectID uuid.UUID) (*PairState, error) {
	state := &PairState{}

	outgoing, err := uc.requestRepo.GetActiveByDirection(ctx, viewerID, subjectID)
	if err != nil && !errors.Is(err, domain.ErrRequestNotFound) {
		return nil, fmt.Errorf("failed to resolve outgoing request: %w", err)
	}
	state.OutgoingRequest = outgoing

	incoming, err := uc.requestRepo.GetActiveByDirection(ctx, subjectID, viewerID)
	if err != nil && !errors.Is(err, domain.ErrRequestNotFound) {
		return nil, fmt.Errorf("failed to resolve incoming request: %w", err)
	}
	state.IncomingRequest = incoming

	match, err := uc.matchRepo.GetActiveByAccounts(ctx, viewerID, subjectID)
	if err != nil && !errors.Is(err, domain.ErrMatchNotFound) {
		return nil, fmt.Errorf("failed to resolve match: %w", err)
	}
	state.Match = match

	reveal, err := uc.revealRepo.GetByDirection(ctx, viewerID, subjectID)
	if err != nil && !errors.Is(err, domain.ErrRevealNotFound) {
		return nil, fmt.Errorf("failed to resolve reveal grant: %w", err)
	}
	state.Reveal = reveal

	return state, nil
}

// CreateRequest opens a contact request from requester to requested. At most
// one pending request may exist per pair in either direction, and an
// already-matched pair may not open a new one. After an unmatch the pair may
// start over with a fresh request.
func (uc *RelationshipUseCase) CreateRequest(ctx context.Context, requesterID, requestedID uuid.UUID) (*domain.MatchRequest, error) {
	if requesterID == requestedID {
		return nil, domain.ErrCannotRequestSelf
	}

	if _, err := uc.matchRepo.GetActiveByAccounts(ctx, requesterID, requestedID); err == nil {
		return nil, domain.ErrAlreadyMatched
	} else if !errors.Is(err, domain.ErrMatchNotFound) {
		return nil, fmt.Errorf("failed to check existing match: %w", err)
	}

	for _, pair := range [][2]uuid.UUID{{requesterID, requestedID}, {requestedID, requesterID}} {
		if _, err := uc.requestRepo.GetActiveByDirection(ctx, pair[0], pair[1]); err == nil {
			return nil, domain.ErrRequestAlreadyExists
		} else if !errors.Is(err, domain.ErrRequestNotFound) {
			return nil, fmt.Errorf("failed to check existing request: %w", err)
		}
	}

	request := &domain.MatchRequest{
		ID:          uuid.New(),
		RequesterID: requesterID,
		RequestedID: requestedID,
		Status:      domain.RequestPending,
	}
	if err := uc.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create match request: %w", err)
	}
	return request, nil
}

// Accept transitions a pending request to accepted and creates the match.
// Re-applying accept on an already-accepted request is a no-op, not an error;
// if the match write was lost between the two steps, re-applying repairs it.
func (uc *RelationshipUseCase) Accept(ctx context.Context, requestID, accountID uuid.UUID) (*domain.Match, error) {
	request, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RequestedID != accountID {
		return nil, domain.ErrRequestNotFound
	}

	switch request.Status {
	case domain.RequestAccepted:
		// Idempotent re-apply: hand back the existing match.
		match, err := uc.matchRepo.GetActiveByAccounts(ctx, request.RequesterID, request.RequestedID)
		if err == nil {
			return match, nil
		}
		if !errors.Is(err, domain.ErrMatchNotFound) {
			return nil, fmt.Errorf("failed to load match for accepted request: %w", err)
		}
		// An earlier accept marked the request but the match write never
		// landed. Fall through and create the missing match so re-applying
		// accept converges instead of erroring forever.
	case domain.RequestDeclined:
		return nil, domain.ErrRequestNotPending
	default:
		if err := uc.requestRepo.UpdateStatus(ctx, requestID, domain.RequestAccepted); err != nil {
			return nil, fmt.Errorf("failed to accept request: %w", err)
		}
	}

	match := &domain.Match{
		ID:         uuid.New(),
		Account1ID: request.RequesterID,
		Account2ID: request.RequestedID,
		IsActive:   true,
	}
	if err := uc.matchRepo.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	logger.Info("match created",
		zap.String("match_id", match.ID.String()),
		zap.String("request_id", requestID.String()))

	return match, nil
}

// ActiveMatches lists the account's current matches.
func (uc *RelationshipUseCase) ActiveMatches(ctx context.Context, accountID uuid.UUID) ([]*domain.Match, error) {
	matches, err := uc.matchRepo.GetActiveForAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// Decline transitions a pending request to its terminal declined state.
func (uc *RelationshipUseCase) Decline(ctx context.Context, requestID, accountID uuid.UUID) error {
	request, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.RequestedID != accountID {
		return domain.ErrRequestNotFound
	}
	if request.Status == domain.RequestDeclined {
		return nil
	}
	if request.Status != domain.RequestPending {
		return domain.ErrRequestNotPending
	}
	return uc.requestRepo.UpdateStatus(ctx, requestID, domain.RequestDeclined)
}

// Unmatch deactivates the match for either party. The pair may later open a
// fresh request and form a new match.
func (uc *RelationshipUseCase) Unmatch(ctx context.Context, matchID, accountID uuid.UUID) error {
	match, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if !match.HasAccount(accountID) {
		return domain.ErrMatchNotFound
	}
	if !match.IsActive {
		return nil
	}
	return uc.matchRepo.SetActive(ctx, matchID, false)
}

// SetPhotosHidden toggles the pair-level photo override; either party may
// set it.
func (uc *RelationshipUseCase) SetPhotosHidden(ctx context.Context, matchID, accountID uuid.UUID, hidden bool) error {
	match, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if !match.HasAccount(accountID) {
		return domain.ErrMatchNotFound
	}
	if !match.IsActive {
		return domain.ErrMatchInactive
	}
	return uc.matchRepo.SetPhotosHidden(ctx, matchID, hidden)
}

// RequestReveal asks the subject to reveal their photos outside of a match.
func (uc *RelationshipUseCase) RequestReveal(ctx context.Context, requesterID, subjectID uuid.UUID) (*domain.PhotoRevealRequest, error) {
	if requesterID == subjectID {
		return nil, domain.ErrCannotRequestSelf
	}

	existing, err := uc.revealRepo.GetByDirection(ctx, requesterID, subjectID)
	if err == nil && existing.Status != domain.RevealDenied {
		return nil, domain.ErrRevealAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrRevealNotFound) {
		return nil, fmt.Errorf("failed to check existing reveal request: %w", err)
	}

	reveal := &domain.PhotoRevealRequest{
		ID:          uuid.New(),
		RequesterID: requesterID,
		SubjectID:   subjectID,
		Status:      domain.RevealPending,
	}
	if err := uc.revealRepo.Create(ctx, reveal); err != nil {
		return nil, fmt.Errorf("failed to create reveal request: %w", err)
	}
	return reveal, nil
}

// RespondReveal approves or denies a pending reveal request; only the subject
// may respond. Re-applying the same response is a no-op.
func (uc *RelationshipUseCase) RespondReveal(ctx context.Context, revealID, accountID uuid.UUID, approve bool) error {
	reveal, err := uc.revealRepo.GetByID(ctx, revealID)
	if err != nil {
		return err
	}
	if reveal.SubjectID != accountID {
		return domain.ErrRevealNotFound
	}

	status := domain.RevealDenied
	if approve {
		status = domain.RevealApproved
	}
	if reveal.Status == status {
		return nil
	}
	return uc.revealRepo.UpdateStatus(ctx, revealID, status)
}
