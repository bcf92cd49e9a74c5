package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
	"github.com/NikkahFirst/mobile-app-sub000/pkg/logger"
)

const profileViewPrefix = "profile_views:"

// checkAndConsumeScript performs the daily-view check-and-increment as one
// server-side operation. A client-orchestrated read-compare-write would let
// two concurrent sessions of the same account both pass the check.
const checkAndConsumeScript = `
	local count = tonumber(redis.call('GET', KEYS[1]) or '0')
	local limit = tonumber(ARGV[1])
	if count >= limit then
		return {0, count}
	end
	count = redis.call('INCR', KEYS[1])
	redis.call('EXPIREAT', KEYS[1], tonumber(ARGV[2]))
	return {1, count}
`

type quotaStore struct {
	client *redis.Client
}

func NewQuotaStore(client *redis.Client) repository.QuotaStore {
	return &quotaStore{client: client}
}

func viewKey(viewerID uuid.UUID, day time.Time) string {
	return profileViewPrefix + viewerID.String() + ":" + day.UTC().Format("2006-01-02")
}

// nextMidnight returns the UTC day boundary after day, when the counter key
// expires and the quota implicitly resets.
func nextMidnight(day time.Time) time.Time {
	day = day.UTC()
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

func (s *quotaStore) CheckAndConsume(ctx context.Context, viewerID uuid.UUID, day time.Time, limit int) (*domain.QuotaResult, error) {
	key := viewKey(viewerID, day)

	result, err := s.client.Eval(ctx, checkAndConsumeScript,
		[]string{key}, limit, nextMidnight(day).Unix()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to consume daily view quota: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return nil, fmt.Errorf("unexpected result format from quota script")
	}

	allowed := values[0].(int64) == 1
	count := int(values[1].(int64))

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	logger.Debug("daily view quota checked",
		zap.String("viewer_id", viewerID.String()),
		zap.Bool("allowed", allowed),
		zap.Int("count", count),
		zap.Int("limit", limit))

	return &domain.QuotaResult{Allowed: allowed, Remaining: remaining}, nil
}

func (s *quotaStore) Remaining(ctx context.Context, viewerID uuid.UUID, day time.Time, limit int) (int, error) {
	count, err := s.client.Get(ctx, viewKey(viewerID, day)).Int()
	if err != nil {
		if err == redis.Nil {
			return limit, nil
		}
		return 0, fmt.Errorf("failed to read daily view counter: %w", err)
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
