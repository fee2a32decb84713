package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"fiich/apperrors"
	"fiich/models"
)

// AccessLevel says how the requester got in.
type AccessLevel string

const (
	AccessOwner  AccessLevel = "owner"
	AccessMember AccessLevel = "member"
	AccessShared AccessLevel = "shared"
)

// Access is the resolved authorization for one requester against one
// company.
type Access struct {
	CompanyID   uint                 `json:"company_id"`
	Level       AccessLevel          `json:"level"`
	Role        string               `json:"role,omitempty"`
	Permissions models.PermissionSet `json:"permissions"`
	Share       *models.CompanyShare `json:"-"`
}

// CompanyView is what a resolved requester is allowed to see.
type CompanyView struct {
	Company   *models.Company          `json:"company"`
	Documents []models.CompanyDocument `json:"documents"`
	Access    *Access                  `json:"access"`
}

// AccessService is the single decision point translating "who is asking,
// with what credential" into "what can they see".
type AccessService struct {
	db          *gorm.DB
	shares      *ShareService
	memberships *MembershipService
	logger      *log.Logger
}

func NewAccessService(db *gorm.DB, shares *ShareService, memberships *MembershipService, logger *log.Logger) *AccessService {
	return &AccessService{db: db, shares: shares, memberships: memberships, logger: logger}
}

// ResolveForToken authorizes a bare share token. Possession of the token
// is the authorization; the share's permission set is final and no
// identity check follows.
func (s *AccessService) ResolveForToken(ctx context.Context, token string) (*Access, error) {
	share, err := s.shares.ResolveByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &Access{
		CompanyID:   share.CompanyID,
		Level:       AccessShared,
		Permissions: share.Permissions,
		Share:       share,
	}, nil
}

// ResolveForUser authorizes an authenticated user against a company.
// Checks run in order: recorded owner, ACTIVE membership row, active
// email-scoped share. First match wins.
func (s *AccessService) ResolveForUser(ctx context.Context, userID, companyID uint) (*Access, error) {
	var company models.Company
	if err := s.db.WithContext(ctx).First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Infrastructure(err)
	}

	if company.OwnerID == userID {
		return &Access{
			CompanyID:   companyID,
			Level:       AccessOwner,
			Role:        models.RoleOwner,
			Permissions: models.DefaultSharePermissions,
		}, nil
	}

	member, err := s.memberships.ActiveMember(ctx, companyID, userID)
	if err == nil {
		return &Access{
			CompanyID:   companyID,
			Level:       AccessMember,
			Role:        member.Role,
			Permissions: models.DefaultSharePermissions,
		}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotAuthenticated
		}
		return nil, apperrors.Infrastructure(err)
	}

	share, err := s.shares.ActiveEmailShare(ctx, companyID, user.Email)
	if err == nil {
		return &Access{
			CompanyID:   companyID,
			Level:       AccessShared,
			Permissions: share.Permissions,
			Share:       share,
		}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	return nil, apperrors.ErrNotAuthorized
}

// CompanyView builds the visible slice of a company for a resolved
// access. Document visibility is a two-tier filter: the permission set
// must carry view_documents, and through the share path only documents
// individually flagged public ever come back. Owners see everything.
func (s *AccessService) CompanyView(ctx context.Context, access *Access) (*CompanyView, error) {
	var company models.Company
	if err := s.db.WithContext(ctx).First(&company, access.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Infrastructure(err)
	}

	view := &CompanyView{
		Company:   &company,
		Documents: []models.CompanyDocument{},
		Access:    access,
	}

	if !access.Permissions.Has(models.PermViewDocuments) {
		return view, nil
	}

	query := s.db.WithContext(ctx).Where("company_id = ?", access.CompanyID)
	if access.Level != AccessOwner {
		query = query.Where("is_public = ?", true)
	}
	if err := query.Find(&view.Documents).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return view, nil
}
