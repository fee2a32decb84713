package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiich/apperrors"
	"fiich/models"
)

func TestIssuePublicLinkIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShareService(db, testLogger())
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	company := createTestCompany(t, db, owner, "Acme")

	first, err := svc.IssuePublicLink(ctx, company.ID, owner.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ShareToken)
	assert.Equal(t, models.PublicShareTarget, first.SharedWithEmail)
	assert.Equal(t, models.DefaultSharePermissions, first.Permissions)
	assert.True(t, first.IsActive)

	second, err := svc.IssuePublicLink(ctx, company.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ShareToken, second.ShareToken, "issuance must return the same token")
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.CompanyShare{}).Where("company_id = ?", company.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "no second public share row should exist")
}

func TestIssuePublicLinkOwnershipGate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShareService(db, testLogger())
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	company := createTestCompany(t, db, owner, "Acme")

	_, err := svc.IssuePublicLink(ctx, company.ID, stranger.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)

	_, err = svc.IssuePublicLink(ctx, 9999, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolveByToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShareService(db, testLogger())
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	company := createTestCompany(t, db, owner, "Acme")

	share, err := svc.IssuePublicLink(ctx, company.ID, owner.ID)
	require.NoError(t, err)

	resolved, err := svc.ResolveByToken(ctx, share.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, company.ID, resolved.CompanyID)
	assert.Equal(t, share.Permissions, resolved.Permissions)

	_, err = svc.ResolveByToken(ctx, "no-such-token")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolveByTokenRevokedLooksMissing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShareService(db, testLogger())
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	company := createTestCompany(t, db, owner, "Acme")

	share, err := svc.IssuePublicLink(ctx, company.ID, owner.ID)
	require.NoError(t, err)

	_, err = svc.Revoke(ctx, share.ID, owner.ID)
	require.NoError(t, err)

	// Revoked resolves exactly like missing, so callers can't probe state.
	_, err = svc.ResolveByToken(ctx, share.ShareToken)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var row models.CompanyShare
	require.NoError(t, db.First(&row, share.ID).Error)
	assert.False(t, row.IsActive, "revocation is a soft flag flip")
}

func TestRevokeOwnershipGate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShareService(db, testLogger())
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	company := createTestCompany(t, db, owner, "Acme")

	share, err := svc.IssuePublicLink(ctx, company.ID, owner.ID)
	require.NoError(t, err)

	_, err = svc.Revoke(ctx, share.ID, stranger.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)

	var row models.CompanyShare
	require.NoError(t, db.First(&row, share.ID).Error)
	assert.True(t, row.IsActive, "share must remain active after failed revoke")
}

func TestUpdatePermissions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShareService(db, testLogger())
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	company := createTestCompany(t, db, owner, "Acme")

	share, err := svc.IssuePublicLink(ctx, company.ID, owner.ID)
	require.NoError(t, err)

	viewOnly := models.PermissionSet(models.PermViewCompany)
	updated, err := svc.UpdatePermissions(ctx, share.ID, owner.ID, viewOnly)
	require.NoError(t, err)
	assert.Equal(t, viewOnly, updated.Permissions)
	assert.False(t, updated.Permissions.Has(models.PermViewDocuments))

	_, err = svc.UpdatePermissions(ctx, share.ID, stranger.ID, models.DefaultSharePermissions)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)

	var row models.CompanyShare
	require.NoError(t, db.First(&row, share.ID).Error)
	assert.Equal(t, viewOnly, row.Permissions)
}

func TestCreateEmailShareLowercasesTarget(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShareService(db, testLogger())
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	company := createTestCompany(t, db, owner, "Acme")

	share, err := svc.CreateEmailShare(ctx, company.ID, "Bob@X.com")
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", share.SharedWithEmail)
	assert.Equal(t, models.DefaultSharePermissions, share.Permissions)
	assert.NotEmpty(t, share.ShareToken)
}

func TestListSharesOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShareService(db, testLogger())
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	company := createTestCompany(t, db, owner, "Acme")

	_, err := svc.IssuePublicLink(ctx, company.ID, owner.ID)
	require.NoError(t, err)
	_, err = svc.CreateEmailShare(ctx, company.ID, "partner@example.com")
	require.NoError(t, err)

	shares, err := svc.ListShares(ctx, company.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, shares, 2)

	_, err = svc.ListShares(ctx, company.ID, stranger.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)
}
