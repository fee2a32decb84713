package models

import (
	"gorm.io/gorm"
)

// Member roles, highest to lowest.
const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
	RoleViewer = "VIEWER"
)

// Membership statuses.
const (
	MemberActive  = "ACTIVE"
	MemberPending = "PENDING"
)

// CompanyMember binds a user to a company with a role. At most one row
// per (company, user) pair; every company must end up with an ACTIVE
// OWNER row, backfilled lazily from company ownership.
type CompanyMember struct {
	gorm.Model
	CompanyID uint `gorm:"not null;uniqueIndex:idx_company_member" json:"company_id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_company_member" json:"user_id"`

	Role   string `gorm:"default:'MEMBER'" json:"role"`
	Status string `gorm:"default:'ACTIVE'" json:"status"`

	// Relations
	Company Company `json:"-"`
	User    User    `json:"-"`
}
