package authflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Identity is the authenticated user record as issued by the remote service.
// It is immutable once issued; the Manager only replaces it wholesale.
type Identity struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// OTPDispatch is the acknowledgment payload returned when the remote service
// accepts a code request. Delivery itself happens out-of-band.
type OTPDispatch struct {
	Email  string `json:"email,omitempty"`
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// SignupRequest carries the fields required to register a new account.
// DateOfBirth uses YYYY-MM-DD.
type SignupRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
}

// HistoryEntry is an audit record forwarded to the remote history endpoint.
type HistoryEntry struct {
	UserID  string         `json:"userId"`
	Action  string         `json:"action"`
	Details map[string]any `json:"details,omitempty"`
}

// HistoryReceipt acknowledges a stored history entry.
type HistoryReceipt struct {
	ID        string `json:"id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// SessionRecord is the persisted form of an Identity. Exactly one row exists
// while a session is active.
type SessionRecord struct {
	bun.BaseModel `bun:"table:session_records,alias:sess"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id,omitempty"`
	UserID        string     `bun:"user_id,notnull" json:"user_id,omitempty"`
	Name          string     `bun:"name" json:"name,omitempty"`
	Email         string     `bun:"email,notnull" json:"email,omitempty"`
	DateOfBirth   string     `bun:"date_of_birth" json:"date_of_birth,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Identity converts the stored row back into the wire-level record.
func (r *SessionRecord) Identity() *Identity {
	if r == nil {
		return nil
	}
	return &Identity{
		ID:          r.UserID,
		Name:        r.Name,
		Email:       r.Email,
		DateOfBirth: r.DateOfBirth,
	}
}
