package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
)

const remediationPrefix = "remediation:"

// remediationStore keeps per-session fix-step completion markers. A marker
// lives at most as long as the session and is dropped on sign-out, so a
// completed step is never re-prompted while the profile flags catch up.
type remediationStore struct {
	client *redis.Client
}

func NewRemediationStore(client *redis.Client) repository.RemediationStore {
	return &remediationStore{client: client}
}

func markerKey(sessionID uuid.UUID, step domain.RemediationStep) string {
	return remediationPrefix + sessionID.String() + ":" + string(step)
}

func (s *remediationStore) MarkComplete(ctx context.Context, sessionID uuid.UUID, step domain.RemediationStep, ttl time.Duration) error {
	if err := s.client.Set(ctx, markerKey(sessionID, step), "done", ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark remediation step: %w", err)
	}
	return nil
}

func (s *remediationStore) IsComplete(ctx context.Context, sessionID uuid.UUID, step domain.RemediationStep) (bool, error) {
	exists, err := s.client.Exists(ctx, markerKey(sessionID, step)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check remediation marker: %w", err)
	}
	return exists > 0, nil
}

func (s *remediationStore) Clear(ctx context.Context, sessionID uuid.UUID) error {
	keys := []string{
		markerKey(sessionID, domain.StepIdentityFix),
		markerKey(sessionID, domain.StepGuardianFix),
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear remediation markers: %w", err)
	}
	return nil
}
