package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
)

type matchRequestRepository struct {
	db *sqlx.DB
}

func NewMatchRequestRepository(db *sqlx.DB) repository.MatchRequestRepository {
	return &matchRequestRepository{db: db}
}

func (r *matchRequestRepository) Create(ctx context.Context, request *domain.MatchRequest) error {
	query := `
		INSERT INTO match_requests (id, requester_id, requested_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		request.ID, request.RequesterID, request.RequestedID, request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
}

func (r *matchRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MatchRequest, error) {
	var request domain.MatchRequest
	query := `SELECT * FROM match_requests WHERE id = $1`
	err := r.db.GetContext(ctx, &request, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *matchRequestRepository) GetActiveByDirection(ctx context.Context, requesterID, requestedID uuid.UUID) (*domain.MatchRequest, error) {
	var request domain.MatchRequest
	query := `
		SELECT * FROM match_requests
		WHERE requester_id = $1 AND requested_id = $2 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &request, query, requesterID, requestedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *matchRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MatchRequestStatus) error {
	query := `UPDATE match_requests SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}
