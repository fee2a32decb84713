// Package services implements the sharing and access-control core:
// membership backfill, share token issuance, the invitation state
// machine, and the access resolver. Every service takes its database
// handle explicitly; nothing reads from a package global.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fiich/apperrors"
	"fiich/models"
)

// companyForOwner loads a company and verifies the requester owns it.
// A missing company maps to ErrNotFound, a non-owner to ErrNotAuthorized.
func companyForOwner(ctx context.Context, db *gorm.DB, companyID, requesterID uint) (*models.Company, error) {
	var company models.Company
	if err := db.WithContext(ctx).First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Infrastructure(err)
	}
	if company.OwnerID != requesterID {
		return nil, apperrors.ErrNotAuthorized
	}
	return &company, nil
}
