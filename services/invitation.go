package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"fiich/apperrors"
	"fiich/models"
	"fiich/utils"
)

// EmailSender is the outbound email collaborator. Production wires
// utils.Mailer; tests substitute a recorder.
type EmailSender interface {
	SendInvitationEmail(to, companyName, inviterEmail, token, message string) error
}

// InvitationService runs the state machine for email-scoped access
// proposals: pending -> {accepted, expired, revoked}, all terminal.
type InvitationService struct {
	db     *gorm.DB
	shares *ShareService
	mailer EmailSender
	logger *log.Logger
}

func NewInvitationService(db *gorm.DB, shares *ShareService, mailer EmailSender, logger *log.Logger) *InvitationService {
	return &InvitationService{db: db, shares: shares, mailer: mailer, logger: logger}
}

// Create inserts a pending invitation and sends the invite email. One row
// and one email per call; duplicate pending invitations for the same
// (company, email) pair are allowed. Owner-only.
//
// The row is persisted before the email goes out and is not rolled back
// on a send failure, so a failed send still leaves a usable invitation.
func (s *InvitationService) Create(ctx context.Context, companyID, inviterID uint, invitedEmail, message string) (*models.Invitation, error) {
	company, err := companyForOwner(ctx, s.db, companyID, inviterID)
	if err != nil {
		return nil, err
	}

	var inviter models.User
	if err := s.db.WithContext(ctx).First(&inviter, inviterID).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}

	token, err := utils.GenerateSecureToken()
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}

	invitation := models.Invitation{
		CompanyID:       companyID,
		InviterID:       inviterID,
		InvitedEmail:    strings.ToLower(invitedEmail),
		InvitationToken: token,
		Status:          models.InvitationPending,
		Message:         message,
		ExpiresAt:       time.Now().Add(models.InvitationTTL),
	}
	if err := s.db.WithContext(ctx).Create(&invitation).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}

	if err := s.mailer.SendInvitationEmail(invitation.InvitedEmail, company.Name, inviter.Email, token, message); err != nil {
		s.logger.Printf("Failed to send invitation email for invitation %d: %v", invitation.ID, err)
		return &invitation, apperrors.Infrastructure(err)
	}

	utils.LogEvent("invitation_created", map[string]interface{}{
		"invitation_id": invitation.ID,
		"company_id":    companyID,
		"inviter_id":    inviterID,
	})
	return &invitation, nil
}

// Accept converts a pending invitation into an email-scoped share. The
// invited email must match the caller's email case-insensitively. The
// status flip and the share insert are separate writes; a crash between
// them leaves an accepted invitation without a share.
func (s *InvitationService) Accept(ctx context.Context, token, userEmail string) (*models.Invitation, *models.CompanyShare, error) {
	var invitation models.Invitation
	err := s.db.WithContext(ctx).Where("invitation_token = ?", token).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, apperrors.Infrastructure(err)
	}

	if invitation.Status != models.InvitationPending {
		return nil, nil, apperrors.ErrNotFound
	}

	if invitation.IsExpired() {
		// Best-effort housekeeping: the lazy predicate already decided.
		invitation.Status = models.InvitationExpired
		if err := s.db.WithContext(ctx).Save(&invitation).Error; err != nil {
			s.logger.Printf("Failed to mark invitation %d expired: %v", invitation.ID, err)
		}
		return nil, nil, apperrors.ErrExpired
	}

	if !strings.EqualFold(invitation.InvitedEmail, userEmail) {
		return nil, nil, apperrors.ErrEmailMismatch
	}

	invitation.Status = models.InvitationAccepted
	invitation.AcceptedAt = utils.Pointer(time.Now())
	if err := s.db.WithContext(ctx).Save(&invitation).Error; err != nil {
		return nil, nil, apperrors.Infrastructure(err)
	}

	share, err := s.shares.CreateEmailShare(ctx, invitation.CompanyID, invitation.InvitedEmail)
	if err != nil {
		return nil, nil, err
	}

	utils.LogEvent("invitation_accepted", map[string]interface{}{
		"invitation_id": invitation.ID,
		"company_id":    invitation.CompanyID,
		"share_id":      share.ID,
	})
	return &invitation, share, nil
}

// Decline lets the invited party refuse a pending invitation. No share is
// created.
func (s *InvitationService) Decline(ctx context.Context, invitationID uint, userEmail string) (*models.Invitation, error) {
	invitation, err := s.pendingInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(invitation.InvitedEmail, userEmail) {
		return nil, apperrors.ErrNotAuthorized
	}
	return s.close(ctx, invitation)
}

// Revoke lets the company owner withdraw a pending invitation.
func (s *InvitationService) Revoke(ctx context.Context, invitationID, requesterID uint) (*models.Invitation, error) {
	invitation, err := s.pendingInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if _, err := companyForOwner(ctx, s.db, invitation.CompanyID, requesterID); err != nil {
		return nil, err
	}
	return s.close(ctx, invitation)
}

// InvitationList is the two disjoint views of List.
type InvitationList struct {
	Sent     []models.Invitation `json:"sent"`
	Received []models.Invitation `json:"received"`
}

// List returns invitations the user sent (as inviter) and received
// (matched by recorded email string, not user id). Pending rows past
// their window are presented as expired without waiting for the column
// update.
func (s *InvitationService) List(ctx context.Context, userID uint) (*InvitationList, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Infrastructure(err)
	}

	list := &InvitationList{}
	if err := s.db.WithContext(ctx).Where("inviter_id = ?", userID).Find(&list.Sent).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	err := s.db.WithContext(ctx).
		Where("LOWER(invited_email) = ?", strings.ToLower(user.Email)).
		Find(&list.Received).Error
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}

	applyLazyExpiry(list.Sent)
	applyLazyExpiry(list.Received)
	return list, nil
}

// applyLazyExpiry rewrites the presented status of overdue pending rows.
// The stored column is left alone; accept does the best-effort update.
func applyLazyExpiry(invitations []models.Invitation) {
	for i := range invitations {
		if invitations[i].Status == models.InvitationPending && invitations[i].IsExpired() {
			invitations[i].Status = models.InvitationExpired
		}
	}
}

func (s *InvitationService) pendingInvitation(ctx context.Context, invitationID uint) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := s.db.WithContext(ctx).First(&invitation, invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Infrastructure(err)
	}
	if invitation.Status != models.InvitationPending {
		return nil, apperrors.ErrNotFound
	}
	return &invitation, nil
}

func (s *InvitationService) close(ctx context.Context, invitation *models.Invitation) (*models.Invitation, error) {
	invitation.Status = models.InvitationRevoked
	if err := s.db.WithContext(ctx).Save(invitation).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return invitation, nil
}
