package controller

import (
	"log"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"

	"fiich/models"
	"fiich/services"
	"fiich/utils"
)

type InvitationController struct {
	Invitations *services.InvitationService
	Logger      *log.Logger
}

func NewInvitationController(invitations *services.InvitationService, logger *log.Logger) *InvitationController {
	return &InvitationController{Invitations: invitations, Logger: logger}
}

type CreateInvitationRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"omitempty,max=1000"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token" validate:"required"`
}

// CreateInvitation sends a time-boxed access proposal to an email
// address. Owner-only.
func (ic *InvitationController) CreateInvitation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := utils.ParseUint(c.Params("id"))

	var req CreateInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "email must be a valid email", nil)
	}

	invitation, err := ic.Invitations.Create(c.Context(), companyID, user.ID, req.Email, req.Message)
	if err != nil {
		// The row may exist even when the email send failed; report the
		// failure either way.
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Invitation sent successfully",
		"invitation": invitation,
	})
}

// AcceptInvitation converts a pending invitation into a share for the
// caller's email.
func (ic *InvitationController) AcceptInvitation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req AcceptInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	invitation, share, err := ic.Invitations.Accept(c.Context(), req.Token, user.Email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Invitation accepted successfully",
		"invitation": invitation,
		"share":      share,
	})
}

// DeclineInvitation refuses a pending invitation addressed to the caller.
func (ic *InvitationController) DeclineInvitation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	invitationID := utils.ParseUint(c.Params("id"))

	invitation, err := ic.Invitations.Decline(c.Context(), invitationID, user.Email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Invitation declined",
		"invitation": invitation,
	})
}

// RevokeInvitation withdraws a pending invitation. Owner-only.
func (ic *InvitationController) RevokeInvitation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	invitationID := utils.ParseUint(c.Params("id"))

	invitation, err := ic.Invitations.Revoke(c.Context(), invitationID, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Invitation revoked",
		"invitation": invitation,
	})
}

// ListInvitations returns the caller's sent and received invitations.
func (ic *InvitationController) ListInvitations(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	list, err := ic.Invitations.List(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(list)
}
