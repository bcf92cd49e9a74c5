package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `
	id, account_id, gender, first_name, last_name, birth_date,
	guardian_name, guardian_phone, subscription_tier,
	photos, photos_opt_out, country, ethnicity, sect, height_cm,
	preferred_countries, onboarding_complete, created_at, updated_at
`

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (
			id, account_id, gender, first_name, last_name, birth_date,
			guardian_name, guardian_phone, subscription_tier,
			photos, photos_opt_out, country, ethnicity, sect, height_cm,
			preferred_countries, onboarding_complete
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		profile.ID, profile.AccountID, profile.Gender,
		profile.FirstName, profile.LastName, profile.BirthDate,
		profile.GuardianName, profile.GuardianPhone, profile.SubscriptionTier,
		pq.Array(profile.Photos), profile.PhotosOptOut, profile.Country,
		pq.Array(profile.Ethnicity), profile.Sect, profile.HeightCm,
		pq.Array(profile.PreferredCountries), profile.OnboardingComplete,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE account_id = $1`
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&profile.ID, &profile.AccountID, &profile.Gender,
		&profile.FirstName, &profile.LastName, &profile.BirthDate,
		&profile.GuardianName, &profile.GuardianPhone, &profile.SubscriptionTier,
		pq.Array(&profile.Photos), &profile.PhotosOptOut, &profile.Country,
		pq.Array(&profile.Ethnicity), &profile.Sect, &profile.HeightCm,
		pq.Array(&profile.PreferredCountries), &profile.OnboardingComplete,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET gender = $1, first_name = $2, last_name = $3, birth_date = $4,
		    guardian_name = $5, guardian_phone = $6, subscription_tier = $7,
		    photos = $8, photos_opt_out = $9, country = $10, ethnicity = $11,
		    sect = $12, height_cm = $13, preferred_countries = $14,
		    onboarding_complete = $15, updated_at = CURRENT_TIMESTAMP
		WHERE id = $16
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.Gender, profile.FirstName, profile.LastName, profile.BirthDate,
		profile.GuardianName, profile.GuardianPhone, profile.SubscriptionTier,
		pq.Array(profile.Photos), profile.PhotosOptOut, profile.Country,
		pq.Array(profile.Ethnicity), profile.Sect, profile.HeightCm,
		pq.Array(profile.PreferredCountries), profile.OnboardingComplete,
		profile.ID,
	).Scan(&profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProfileNotFound
		}
		return err
	}
	return nil
}

func (r *profileRepository) Search(ctx context.Context, filters repository.SearchFilters, limit, offset int) ([]*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE onboarding_complete = true`
	args := []interface{}{}
	argCount := 1

	if filters.Gender != nil {
		query += fmt.Sprintf(" AND gender = $%d", argCount)
		args = append(args, *filters.Gender)
		argCount++
	}

	if filters.Country != nil {
		query += fmt.Sprintf(" AND country = $%d", argCount)
		args = append(args, *filters.Country)
		argCount++
	}

	if len(filters.Ethnicity) > 0 {
		query += fmt.Sprintf(" AND ethnicity && $%d", argCount)
		args = append(args, pq.Array(filters.Ethnicity))
		argCount++
	}

	if filters.Sect != nil {
		query += fmt.Sprintf(" AND sect = $%d", argCount)
		args = append(args, *filters.Sect)
		argCount++
	}

	if filters.MinHeightCm != nil {
		query += fmt.Sprintf(" AND height_cm >= $%d", argCount)
		args = append(args, *filters.MinHeightCm)
		argCount++
	}

	if filters.MaxHeightCm != nil {
		query += fmt.Sprintf(" AND height_cm <= $%d", argCount)
		args = append(args, *filters.MaxHeightCm)
		argCount++
	}

	// Age filters compare against birth_date: older minimum age means an
	// earlier cutoff date.
	if filters.MinAge != nil {
		query += fmt.Sprintf(" AND birth_date <= CURRENT_DATE - ($%d * INTERVAL '1 year')", argCount)
		args = append(args, *filters.MinAge)
		argCount++
	}

	if filters.MaxAge != nil {
		query += fmt.Sprintf(" AND birth_date > CURRENT_DATE - (($%d + 1) * INTERVAL '1 year')", argCount)
		args = append(args, *filters.MaxAge)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		var profile domain.Profile
		if err := rows.Scan(
			&profile.ID, &profile.AccountID, &profile.Gender,
			&profile.FirstName, &profile.LastName, &profile.BirthDate,
			&profile.GuardianName, &profile.GuardianPhone, &profile.SubscriptionTier,
			pq.Array(&profile.Photos), &profile.PhotosOptOut, &profile.Country,
			pq.Array(&profile.Ethnicity), &profile.Sect, &profile.HeightCm,
			pq.Array(&profile.PreferredCountries), &profile.OnboardingComplete,
			&profile.CreatedAt, &profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, &profile)
	}
	return profiles, rows.Err()
}
