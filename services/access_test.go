package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fiich/apperrors"
	"fiich/models"
)

func newAccessService(db *gorm.DB) (*AccessService, *ShareService) {
	shares := NewShareService(db, testLogger())
	memberships := NewMembershipService(db, testLogger())
	return NewAccessService(db, shares, memberships, testLogger()), shares
}

func addDocument(t *testing.T, db *gorm.DB, companyID uint, title string, public bool) *models.CompanyDocument {
	t.Helper()
	doc := &models.CompanyDocument{
		CompanyID:  companyID,
		Title:      title,
		StorageKey: title + ".pdf",
		IsPublic:   public,
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

func TestResolveForUserOwner(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAccessService(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	company := createTestCompany(t, db, owner, "Acme")

	access, err := svc.ResolveForUser(ctx, owner.ID, company.ID)
	require.NoError(t, err)
	assert.Equal(t, AccessOwner, access.Level)
	assert.Equal(t, models.RoleOwner, access.Role)
	assert.True(t, access.Permissions.Has(models.PermViewCompany))
	assert.True(t, access.Permissions.Has(models.PermViewDocuments))
}

func TestResolveForUserActiveMember(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAccessService(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	member := createTestUser(t, db, "member@example.com")
	pending := createTestUser(t, db, "pending@example.com")
	company := createTestCompany(t, db, owner, "Acme")

	require.NoError(t, db.Create(&models.CompanyMember{
		CompanyID: company.ID, UserID: member.ID,
		Role: models.RoleAdmin, Status: models.MemberActive,
	}).Error)
	require.NoError(t, db.Create(&models.CompanyMember{
		CompanyID: company.ID, UserID: pending.ID,
		Role: models.RoleViewer, Status: models.MemberPending,
	}).Error)

	access, err := svc.ResolveForUser(ctx, member.ID, company.ID)
	require.NoError(t, err)
	assert.Equal(t, AccessMember, access.Level)
	assert.Equal(t, models.RoleAdmin, access.Role)

	// PENDING rows grant nothing.
	_, err = svc.ResolveForUser(ctx, pending.ID, company.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)
}

func TestResolveForUserEmailShare(t *testing.T) {
	db := setupTestDB(t)
	svc, shares := newAccessService(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	partner := createTestUser(t, db, "Partner@Example.com")
	company := createTestCompany(t, db, owner, "Acme")

	_, err := shares.CreateEmailShare(ctx, company.ID, "partner@example.com")
	require.NoError(t, err)

	access, err := svc.ResolveForUser(ctx, partner.ID, company.ID)
	require.NoError(t, err)
	assert.Equal(t, AccessShared, access.Level)
	require.NotNil(t, access.Share)
	assert.Equal(t, "partner@example.com", access.Share.SharedWithEmail)
}

func TestResolveForUserDenied(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAccessService(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	company := createTestCompany(t, db, owner, "Acme")

	_, err := svc.ResolveForUser(ctx, stranger.ID, company.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)

	_, err = svc.ResolveForUser(ctx, owner.ID, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolveForTokenIsCapability(t *testing.T) {
	db := setupTestDB(t)
	svc, shareSvc := newAccessService(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	company := createTestCompany(t, db, owner, "Acme")

	share, err := shareSvc.IssuePublicLink(ctx, company.ID, owner.ID)
	require.NoError(t, err)

	access, err := svc.ResolveForToken(ctx, share.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, AccessShared, access.Level)
	assert.Equal(t, company.ID, access.CompanyID)
	assert.Equal(t, share.Permissions, access.Permissions)

	_, err = shareSvc.Revoke(ctx, share.ID, owner.ID)
	require.NoError(t, err)

	_, err = svc.ResolveForToken(ctx, share.ShareToken)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCompanyViewDocumentGate(t *testing.T) {
	db := setupTestDB(t)
	svc, shareSvc := newAccessService(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	company := createTestCompany(t, db, owner, "Acme")
	addDocument(t, db, company.ID, "public-brochure", true)
	addDocument(t, db, company.ID, "private-contract", false)

	share, err := shareSvc.IssuePublicLink(ctx, company.ID, owner.ID)
	require.NoError(t, err)

	// Share with view_documents: only the public document comes back.
	access, err := svc.ResolveForToken(ctx, share.ShareToken)
	require.NoError(t, err)
	view, err := svc.CompanyView(ctx, access)
	require.NoError(t, err)
	require.Len(t, view.Documents, 1)
	assert.Equal(t, "public-brochure", view.Documents[0].Title)
	assert.Equal(t, company.Name, view.Company.Name)

	// Share without view_documents: nothing, even public documents.
	viewOnly := models.PermissionSet(models.PermViewCompany)
	_, err = shareSvc.UpdatePermissions(ctx, share.ID, owner.ID, viewOnly)
	require.NoError(t, err)

	access, err = svc.ResolveForToken(ctx, share.ShareToken)
	require.NoError(t, err)
	view, err = svc.CompanyView(ctx, access)
	require.NoError(t, err)
	assert.Empty(t, view.Documents)
}

func TestCompanyViewOwnerSeesPrivateDocuments(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAccessService(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	company := createTestCompany(t, db, owner, "Acme")
	addDocument(t, db, company.ID, "public-brochure", true)
	addDocument(t, db, company.ID, "private-contract", false)

	access, err := svc.ResolveForUser(ctx, owner.ID, company.ID)
	require.NoError(t, err)
	view, err := svc.CompanyView(ctx, access)
	require.NoError(t, err)
	assert.Len(t, view.Documents, 2)
}
