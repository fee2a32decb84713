package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Permission is a single capability carried by a share.
type Permission uint8

const (
	PermViewCompany Permission = 1 << iota
	PermViewDocuments
)

var permissionNames = map[Permission]string{
	PermViewCompany:   "view_company",
	PermViewDocuments: "view_documents",
}

// PermissionSet is a closed bit-set of share permissions. It is stored as
// a comma-joined string and serialized to JSON as a list of names, so the
// wire format stays readable while the document-gate checks stay typed.
type PermissionSet uint8

// DefaultSharePermissions is granted to every newly created share.
const DefaultSharePermissions = PermissionSet(PermViewCompany | PermViewDocuments)

func (s PermissionSet) Has(p Permission) bool {
	return s&PermissionSet(p) != 0
}

func (s PermissionSet) With(p Permission) PermissionSet {
	return s | PermissionSet(p)
}

// Names returns the string form of every permission in the set.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, 2)
	for _, p := range []Permission{PermViewCompany, PermViewDocuments} {
		if s.Has(p) {
			names = append(names, permissionNames[p])
		}
	}
	return names
}

// ParsePermissions converts permission names into a set, rejecting
// anything outside the closed vocabulary.
func ParsePermissions(names []string) (PermissionSet, error) {
	var set PermissionSet
	for _, name := range names {
		found := false
		for p, n := range permissionNames {
			if n == name {
				set = set.With(p)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown permission %q", name)
		}
	}
	return set, nil
}

func (s PermissionSet) String() string {
	return strings.Join(s.Names(), ",")
}

// Value implements driver.Valuer for gorm.
func (s PermissionSet) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner for gorm.
func (s *PermissionSet) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*s = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into PermissionSet", value)
	}
	if raw == "" {
		*s = 0
		return nil
	}
	parsed, err := ParsePermissions(strings.Split(raw, ","))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *PermissionSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParsePermissions(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PublicShareTarget is the sentinel SharedWithEmail value meaning "any
// bearer of the token".
const PublicShareTarget = "public"

// CompanyShare is a standing capability grant. Revocation flips IsActive
// instead of deleting the row so distributed tokens stay pinned and the
// grant history survives.
type CompanyShare struct {
	gorm.Model
	CompanyID       uint          `gorm:"not null;index" json:"company_id"`
	SharedWithEmail string        `gorm:"not null;index" json:"shared_with_email"`
	ShareToken      string        `gorm:"uniqueIndex;not null" json:"share_token"`
	Permissions     PermissionSet `gorm:"type:varchar(64);not null" json:"permissions"`
	IsActive        bool          `gorm:"default:true" json:"is_active"`

	// Relations
	Company Company `json:"-"`
}

// IsPublic reports whether the share is a bearer-token grant rather than
// an email-scoped one.
func (s *CompanyShare) IsPublic() bool {
	return s.SharedWithEmail == PublicShareTarget
}
