package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"fiich/apperrors"
	"fiich/models"
)

// MembershipService maintains the (company, user) -> (role, status)
// mapping.
type MembershipService struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewMembershipService(db *gorm.DB, logger *log.Logger) *MembershipService {
	return &MembershipService{db: db, logger: logger}
}

// MembershipBackfill reports what EnsureOwnerMemberships found and did.
type MembershipBackfill struct {
	CompaniesOwned int `json:"companies_owned"`
	AlreadyPresent int `json:"already_present"`
	Created        int `json:"created"`
}

// EnsureOwnerMemberships backfills an ACTIVE OWNER membership row for
// every company the user owns. Insert-only and idempotent: an existing
// row is never touched, so a demoted owner is not silently restored.
func (s *MembershipService) EnsureOwnerMemberships(ctx context.Context, userID uint) (*MembershipBackfill, error) {
	var companies []models.Company
	if err := s.db.WithContext(ctx).Where("owner_id = ?", userID).Find(&companies).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}

	result := &MembershipBackfill{CompaniesOwned: len(companies)}
	for _, company := range companies {
		var existing models.CompanyMember
		err := s.db.WithContext(ctx).
			Where("company_id = ? AND user_id = ?", company.ID, userID).
			First(&existing).Error
		if err == nil {
			result.AlreadyPresent++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Infrastructure(err)
		}

		member := models.CompanyMember{
			CompanyID: company.ID,
			UserID:    userID,
			Role:      models.RoleOwner,
			Status:    models.MemberActive,
		}
		if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
			return nil, apperrors.Infrastructure(err)
		}
		s.logger.Printf("Backfilled owner membership for company %d user %d", company.ID, userID)
		result.Created++
	}
	return result, nil
}

// ListMembers returns all membership rows for a company, unordered.
func (s *MembershipService) ListMembers(ctx context.Context, companyID uint) ([]models.CompanyMember, error) {
	var members []models.CompanyMember
	if err := s.db.WithContext(ctx).Where("company_id = ?", companyID).Find(&members).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return members, nil
}

// ActiveMember returns the ACTIVE membership row for (company, user), or
// ErrNotFound.
func (s *MembershipService) ActiveMember(ctx context.Context, companyID, userID uint) (*models.CompanyMember, error) {
	var member models.CompanyMember
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ? AND status = ?", companyID, userID, models.MemberActive).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Infrastructure(err)
	}
	return &member, nil
}
