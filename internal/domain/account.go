package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStandard  Role = "standard"
	RoleAffiliate Role = "affiliate"
	RoleAdmin     Role = "admin"
)

type Account struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	ReferralCode *string   `json:"referral_code" db:"referral_code"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Session struct {
	ID         uuid.UUID `json:"id" db:"id"`
	AccountID  uuid.UUID `json:"account_id" db:"account_id"`
	Token      string    `json:"-" db:"token"`
	DeviceInfo *string   `json:"device_info" db:"device_info"`
	IPAddress  *string   `json:"ip_address" db:"ip_address"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
