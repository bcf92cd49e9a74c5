package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderAffiliate Gender = "affiliate"
)

type SubscriptionTier string

const (
	TierFreemium   SubscriptionTier = "freemium"
	TierSubscribed SubscriptionTier = "subscribed"
	TierLifetime   SubscriptionTier = "lifetime"
)

type Profile struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	AccountID          uuid.UUID        `json:"account_id" db:"account_id"`
	Gender             Gender           `json:"gender" db:"gender"`
	FirstName          *string          `json:"first_name" db:"first_name"`
	LastName           *string          `json:"last_name" db:"last_name"`
	BirthDate          *time.Time       `json:"birth_date" db:"birth_date"`
	GuardianName       *string          `json:"guardian_name" db:"guardian_name"`
	GuardianPhone      *string          `json:"guardian_phone" db:"guardian_phone"`
	SubscriptionTier   SubscriptionTier `json:"subscription_tier" db:"subscription_tier"`
	Photos             []string         `json:"photos" db:"photos"`
	PhotosOptOut       bool             `json:"photos_opt_out" db:"photos_opt_out"`
	Country            *string          `json:"country" db:"country"`
	Ethnicity          []string         `json:"ethnicity" db:"ethnicity"`
	Sect               *string          `json:"sect" db:"sect"`
	HeightCm           *int             `json:"height_cm" db:"height_cm"`
	PreferredCountries []string         `json:"preferred_countries" db:"preferred_countries"`
	OnboardingComplete bool             `json:"onboarding_complete" db:"onboarding_complete"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// LegalNameComplete reports whether the identity step has been filled in:
// first name, last name and birth date all present.
func (p *Profile) LegalNameComplete() bool {
	return p.FirstName != nil && strings.TrimSpace(*p.FirstName) != "" &&
		p.LastName != nil && strings.TrimSpace(*p.LastName) != "" &&
		p.BirthDate != nil
}

// GuardianContactComplete reports whether the guardian contact details are
// filled in. Only female profiles are required to provide them.
func (p *Profile) GuardianContactComplete() bool {
	return p.GuardianName != nil && strings.TrimSpace(*p.GuardianName) != "" &&
		p.GuardianPhone != nil && strings.TrimSpace(*p.GuardianPhone) != ""
}

// ComputeOnboardingComplete derives the onboarding flag from the raw fields:
// a non-empty ethnicity list, at least one preferred country, and at least
// one non-blank photo unless the profile opted out of photos. The stored
// onboarding_complete column is a cache only; gating decisions must use this
// function, never the stored value.
func (p *Profile) ComputeOnboardingComplete() bool {
	if len(p.Ethnicity) == 0 {
		return false
	}
	if len(p.PreferredCountries) == 0 {
		return false
	}
	if p.PhotosOptOut {
		return true
	}
	for _, photo := range p.Photos {
		if strings.TrimSpace(photo) != "" {
			return true
		}
	}
	return false
}

func (p *Profile) Age() int {
	if p.BirthDate == nil {
		return 0
	}
	now := time.Now()
	age := now.Year() - p.BirthDate.Year()
	if now.YearDay() < p.BirthDate.YearDay() {
		age--
	}
	return age
}
