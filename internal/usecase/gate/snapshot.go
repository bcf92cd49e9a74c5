package gate

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
	"github.com/NikkahFirst/mobile-app-sub000/pkg/logger"
)

// SnapshotStatus classifies the outcome of a profile fetch.
type SnapshotStatus int

const (
	// SnapshotOK means the profile was fetched.
	SnapshotOK SnapshotStatus = iota
	// SnapshotMissing means the account has no profile record. This is a
	// normal gating branch (signup-continue), not an error.
	SnapshotMissing
	// SnapshotSessionInvalid means a token error was detected mid-fetch.
	// Retrying cannot help; the caller must re-authenticate.
	SnapshotSessionInvalid
	// SnapshotUnavailable means retries were exhausted on transient
	// failures. The caller must offer retry and a force-sign-out escape.
	SnapshotUnavailable
)

// Snapshot is the resolved profile state the gate evaluates against.
type Snapshot struct {
	Status  SnapshotStatus
	Profile *domain.Profile
	Err     error
}

const (
	snapshotMaxRetries   = 3
	snapshotBaseInterval = time.Second
)

// ProfileResolver fetches the viewer's profile with bounded exponential
// backoff. A retry is scheduled only after the previous attempt settles, so
// attempts never overlap.
type ProfileResolver struct {
	profileRepo  repository.ProfileRepository
	maxRetries   uint64
	baseInterval time.Duration
}

func NewProfileResolver(profileRepo repository.ProfileRepository) *ProfileResolver {
	return &ProfileResolver{
		profileRepo:  profileRepo,
		maxRetries:   snapshotMaxRetries,
		baseInterval: snapshotBaseInterval,
	}
}

func (r *ProfileResolver) Resolve(ctx context.Context, accountID uuid.UUID) *Snapshot {
	var profile *domain.Profile

	operation := func() error {
		var err error
		profile, err = r.profileRepo.GetByAccountID(ctx, accountID)
		if err == nil {
			return nil
		}
		// Missing records and token errors short-circuit the retry loop.
		if errors.Is(err, domain.ErrProfileNotFound) ||
			errors.Is(err, domain.ErrSessionExpired) ||
			errors.Is(err, domain.ErrInvalidToken) ||
			errors.Is(err, domain.ErrSessionNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.baseInterval

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(policy, r.maxRetries), ctx))
	if err == nil {
		return &Snapshot{Status: SnapshotOK, Profile: profile}
	}

	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		return &Snapshot{Status: SnapshotMissing}
	case errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrSessionNotFound):
		return &Snapshot{Status: SnapshotSessionInvalid, Err: err}
	default:
		logger.Warn("profile fetch failed after retries",
			zap.String("account_id", accountID.String()),
			zap.Error(err))
		return &Snapshot{Status: SnapshotUnavailable, Err: err}
	}
}
