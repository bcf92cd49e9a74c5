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

type photoRevealRepository struct {
	db *sqlx.DB
}

func NewPhotoRevealRepository(db *sqlx.DB) repository.PhotoRevealRepository {
	return &photoRevealRepository{db: db}
}

func (r *photoRevealRepository) Create(ctx context.Context, reveal *domain.PhotoRevealRequest) error {
	query := `
		INSERT INTO photo_reveal_requests (id, requester_id, subject_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		reveal.ID, reveal.RequesterID, reveal.SubjectID, reveal.Status,
	).Scan(&reveal.CreatedAt, &reveal.UpdatedAt)
}

func (r *photoRevealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PhotoRevealRequest, error) {
	var reveal domain.PhotoRevealRequest
	query := `SELECT * FROM photo_reveal_requests WHERE id = $1`
	err := r.db.GetContext(ctx, &reveal, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRevealNotFound
		}
		return nil, err
	}
	return &reveal, nil
}

func (r *photoRevealRepository) GetByDirection(ctx context.Context, requesterID, subjectID uuid.UUID) (*domain.PhotoRevealRequest, error) {
	var reveal domain.PhotoRevealRequest
	query := `
		SELECT * FROM photo_reveal_requests
		WHERE requester_id = $1 AND subject_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &reveal, query, requesterID, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRevealNotFound
		}
		return nil, err
	}
	return &reveal, nil
}

func (r *photoRevealRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PhotoRevealStatus) error {
	query := `UPDATE photo_reveal_requests SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRevealNotFound
	}
	return nil
}
