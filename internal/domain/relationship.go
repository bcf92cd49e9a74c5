package domain

import (
	"time"

	"github.com/google/uuid"
)

type MatchRequestStatus string

const (
	RequestPending  MatchRequestStatus = "pending"
	RequestAccepted MatchRequestStatus = "accepted"
	RequestDeclined MatchRequestStatus = "declined"
)

// MatchRequest is a directed contact request from Requester to Requested.
// At most one pending request may exist per pair in either direction; once a
// request is accepted the Match record carries the pair's state.
type MatchRequest struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	RequesterID uuid.UUID          `json:"requester_id" db:"requester_id"`
	RequestedID uuid.UUID          `json:"requested_id" db:"requested_id"`
	Status      MatchRequestStatus `json:"status" db:"status"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" db:"updated_at"`
}

// Match is the undirected pairing created when a request is accepted.
// Account IDs are normalized account1 < account2.
type Match struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Account1ID   uuid.UUID `json:"account1_id" db:"account1_id"`
	Account2ID   uuid.UUID `json:"account2_id" db:"account2_id"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	PhotosHidden bool      `json:"photos_hidden" db:"photos_hidden"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (m *Match) HasAccount(accountID uuid.UUID) bool {
	return m.Account1ID == accountID || m.Account2ID == accountID
}

func (m *Match) OtherAccountID(accountID uuid.UUID) (uuid.UUID, bool) {
	if m.Account1ID == accountID {
		return m.Account2ID, true
	}
	if m.Account2ID == accountID {
		return m.Account1ID, true
	}
	return uuid.Nil, false
}

type PhotoRevealStatus string

const (
	RevealPending  PhotoRevealStatus = "pending"
	RevealApproved PhotoRevealStatus = "approved"
	RevealDenied   PhotoRevealStatus = "denied"
)

// PhotoRevealRequest is a directed grant letting Requester view Subject's
// photos outside of a match. An approved grant is permanent for the pair
// unless revoked.
type PhotoRevealRequest struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	RequesterID uuid.UUID         `json:"requester_id" db:"requester_id"`
	SubjectID   uuid.UUID         `json:"subject_id" db:"subject_id"`
	Status      PhotoRevealStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}
