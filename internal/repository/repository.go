package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
)

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	Search(ctx context.Context, filters SearchFilters, limit, offset int) ([]*domain.Profile, error)
}

// SearchFilters carries the already-entitlement-clamped search criteria.
// Nil fields mean "any".
type SearchFilters struct {
	Gender      *domain.Gender
	Country     *string
	Ethnicity   []string
	Sect        *string
	MinHeightCm *int
	MaxHeightCm *int
	MinAge      *int
	MaxAge      *int
}

type MatchRequestRepository interface {
	Create(ctx context.Context, request *domain.MatchRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MatchRequest, error)
	// GetActiveByDirection looks up the single pending request for the
	// ordered pair requester->requested.
	GetActiveByDirection(ctx context.Context, requesterID, requestedID uuid.UUID) (*domain.MatchRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MatchRequestStatus) error
}

type MatchRepository interface {
	Create(ctx context.Context, match *domain.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error)
	// GetActiveByAccounts looks up the active match for the unordered pair.
	GetActiveByAccounts(ctx context.Context, account1ID, account2ID uuid.UUID) (*domain.Match, error)
	GetActiveForAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Match, error)
	SetActive(ctx context.Context, id uuid.UUID, isActive bool) error
	SetPhotosHidden(ctx context.Context, id uuid.UUID, hidden bool) error
}

type PhotoRevealRepository interface {
	Create(ctx context.Context, reveal *domain.PhotoRevealRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PhotoRevealRequest, error)
	// GetByDirection looks up the latest reveal request for the ordered pair
	// requester->subject.
	GetByDirection(ctx context.Context, requesterID, subjectID uuid.UUID) (*domain.PhotoRevealRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PhotoRevealStatus) error
}

// QuotaStore tracks freemium daily profile-view counters. The increment is
// evaluated server-side as a single atomic check-and-increment.
type QuotaStore interface {
	CheckAndConsume(ctx context.Context, viewerID uuid.UUID, day time.Time, limit int) (*domain.QuotaResult, error)
	Remaining(ctx context.Context, viewerID uuid.UUID, day time.Time, limit int) (int, error)
}

// RemediationStore holds session-scoped fix-step completion markers. Markers
// live for the session lifetime and are cleared on sign-out.
type RemediationStore interface {
	MarkComplete(ctx context.Context, sessionID uuid.UUID, step domain.RemediationStep, ttl time.Duration) error
	IsComplete(ctx context.Context, sessionID uuid.UUID, step domain.RemediationStep) (bool, error)
	Clear(ctx context.Context, sessionID uuid.UUID) error
}
