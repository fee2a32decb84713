package models

import (
	"time"

	"gorm.io/gorm"
)

// Invitation statuses. pending is the only non-terminal state; once a row
// leaves it, nothing moves it back or between terminal states.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
	InvitationRevoked  = "revoked"
)

// InvitationTTL is fixed at creation time. There is no sliding expiry and
// no renewal operation.
const InvitationTTL = 7 * 24 * time.Hour

// Invitation is a time-boxed proposal to grant access. Accepting one
// creates exactly one email-scoped CompanyShare; it never mutates an
// existing share.
type Invitation struct {
	gorm.Model
	CompanyID    uint   `gorm:"not null;index" json:"company_id"`
	InviterID    uint   `gorm:"not null;index" json:"inviter_id"`
	InvitedEmail string `gorm:"not null;index" json:"invited_email"`

	InvitationToken string `gorm:"uniqueIndex;not null" json:"invitation_token"`
	Status          string `gorm:"default:'pending';index" json:"status"`
	Message         string `json:"message,omitempty"`

	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`

	// Relations
	Company Company `json:"-"`
	Inviter User    `json:"-"`
}

// IsExpired is the lazy expiry predicate: a pending invitation past its
// window counts as expired even before the status column catches up.
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
