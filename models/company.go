package models

import (
	"gorm.io/gorm"
)

// Company is a tenant-owned business profile. Deletion is out of scope;
// rows only ever accumulate.
type Company struct {
	gorm.Model
	OwnerID uint   `gorm:"not null;index" json:"owner_id"`
	Name    string `gorm:"not null" json:"name"`

	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`

	VATNumber          string `json:"vat_number"`
	RegistrationNumber string `json:"registration_number"`
	LogoURL            string `json:"logo_url"`

	// Relations
	Owner     User              `json:"-"`
	Members   []CompanyMember   `gorm:"foreignKey:CompanyID" json:"members,omitempty"`
	Documents []CompanyDocument `gorm:"foreignKey:CompanyID" json:"documents,omitempty"`
}

// CompanyDocument holds document metadata only; the bytes live in object
// storage under StorageKey. Private documents are never exposed through
// the share path regardless of share permissions.
type CompanyDocument struct {
	gorm.Model
	CompanyID   uint   `gorm:"not null;index" json:"company_id"`
	Title       string `gorm:"not null" json:"title"`
	StorageKey  string `gorm:"not null" json:"storage_key"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	IsPublic    bool   `gorm:"default:false" json:"is_public"`

	Company Company `json:"-"`
}
