package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"fiich/apperrors"
	"fiich/models"
	"fiich/utils"
)

// ShareService mints and resolves public and per-email capability tokens.
type ShareService struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewShareService(db *gorm.DB, logger *log.Logger) *ShareService {
	return &ShareService{db: db, logger: logger}
}

// IssuePublicLink returns the company's public share, creating it on
// first use. Issuance is idempotent: the first token minted for a company
// is the one every later call returns, so previously distributed links
// keep working. Only the verified owner may issue.
func (s *ShareService) IssuePublicLink(ctx context.Context, companyID, requesterID uint) (*models.CompanyShare, error) {
	if _, err := companyForOwner(ctx, s.db, companyID, requesterID); err != nil {
		return nil, err
	}

	var existing models.CompanyShare
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND shared_with_email = ?", companyID, models.PublicShareTarget).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Infrastructure(err)
	}

	token, err := utils.GenerateSecureToken()
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}

	share := models.CompanyShare{
		CompanyID:       companyID,
		SharedWithEmail: models.PublicShareTarget,
		ShareToken:      token,
		Permissions:     models.DefaultSharePermissions,
		IsActive:        true,
	}
	if err := s.db.WithContext(ctx).Create(&share).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}

	s.logger.Printf("Issued public share link for company %d", companyID)
	return &share, nil
}

// ResolveByToken looks up an active share by token. Missing and revoked
// tokens both come back as ErrNotFound so callers can't probe for
// revoked links.
func (s *ShareService) ResolveByToken(ctx context.Context, token string) (*models.CompanyShare, error) {
	var share models.CompanyShare
	err := s.db.WithContext(ctx).
		Where("share_token = ? AND is_active = ?", token, true).
		First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Infrastructure(err)
	}
	return &share, nil
}

// Revoke flips the share inactive. The row is kept for audit history and
// to pin the token.
func (s *ShareService) Revoke(ctx context.Context, shareID, requesterID uint) (*models.CompanyShare, error) {
	share, err := s.shareForOwner(ctx, shareID, requesterID)
	if err != nil {
		return nil, err
	}

	share.IsActive = false
	if err := s.db.WithContext(ctx).Save(share).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	s.logger.Printf("Revoked share %d for company %d", share.ID, share.CompanyID)
	return share, nil
}

// UpdatePermissions overwrites the permission set of an existing share.
func (s *ShareService) UpdatePermissions(ctx context.Context, shareID, requesterID uint, perms models.PermissionSet) (*models.CompanyShare, error) {
	share, err := s.shareForOwner(ctx, shareID, requesterID)
	if err != nil {
		return nil, err
	}

	share.Permissions = perms
	if err := s.db.WithContext(ctx).Save(share).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return share, nil
}

// CreateEmailShare inserts a fresh email-scoped grant with the default
// permission set. This is the invitation-acceptance path; unlike public
// issuance it is keyed by email and always inserts.
func (s *ShareService) CreateEmailShare(ctx context.Context, companyID uint, email string) (*models.CompanyShare, error) {
	token, err := utils.GenerateSecureToken()
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}

	share := models.CompanyShare{
		CompanyID:       companyID,
		SharedWithEmail: strings.ToLower(email),
		ShareToken:      token,
		Permissions:     models.DefaultSharePermissions,
		IsActive:        true,
	}
	if err := s.db.WithContext(ctx).Create(&share).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return &share, nil
}

// ListShares returns every grant for a company, active and revoked.
// Owner-only.
func (s *ShareService) ListShares(ctx context.Context, companyID, requesterID uint) ([]models.CompanyShare, error) {
	if _, err := companyForOwner(ctx, s.db, companyID, requesterID); err != nil {
		return nil, err
	}

	var shares []models.CompanyShare
	if err := s.db.WithContext(ctx).Where("company_id = ?", companyID).Find(&shares).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return shares, nil
}

// ActiveEmailShare returns the active grant for (company, email), or
// ErrNotFound.
func (s *ShareService) ActiveEmailShare(ctx context.Context, companyID uint, email string) (*models.CompanyShare, error) {
	var share models.CompanyShare
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND shared_with_email = ? AND is_active = ?", companyID, strings.ToLower(email), true).
		First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Infrastructure(err)
	}
	return &share, nil
}

func (s *ShareService) shareForOwner(ctx context.Context, shareID, requesterID uint) (*models.CompanyShare, error) {
	var share models.CompanyShare
	if err := s.db.WithContext(ctx).First(&share, shareID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Infrastructure(err)
	}
	if _, err := companyForOwner(ctx, s.db, share.CompanyID, requesterID); err != nil {
		return nil, err
	}
	return &share, nil
}
