package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
)

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

// orderPair normalizes the unordered pair for the account1 < account2
// database constraint.
func orderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	account1ID, account2ID := orderPair(match.Account1ID, match.Account2ID)

	query := `
		INSERT INTO matches (id, account1_id, account2_id, is_active, photos_hidden)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		match.ID, account1ID, account2ID, match.IsActive, match.PhotosHidden,
	).Scan(&match.CreatedAt, &match.UpdatedAt)

	match.Account1ID = account1ID
	match.Account2ID = account2ID
	return err
}

func (r *matchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := `SELECT * FROM matches WHERE id = $1`
	err := r.db.GetContext(ctx, &match, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetActiveByAccounts(ctx context.Context, account1ID, account2ID uuid.UUID) (*domain.Match, error) {
	account1ID, account2ID = orderPair(account1ID, account2ID)

	var match domain.Match
	query := `
		SELECT * FROM matches
		WHERE account1_id = $1 AND account2_id = $2 AND is_active = true
	`
	err := r.db.GetContext(ctx, &match, query, account1ID, account2ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetActiveForAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Match, error) {
	var matches []*domain.Match
	query := `
		SELECT * FROM matches
		WHERE (account1_id = $1 OR account2_id = $1) AND is_active = true
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &matches, query, accountID)
	return matches, err
}

func (r *matchRepository) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	query := `UPDATE matches SET is_active = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	return r.execExpectingRow(ctx, query, isActive, id)
}

func (r *matchRepository) SetPhotosHidden(ctx context.Context, id uuid.UUID, hidden bool) error {
	query := `UPDATE matches SET photos_hidden = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	return r.execExpectingRow(ctx, query, hidden, id)
}

func (r *matchRepository) execExpectingRow(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}
