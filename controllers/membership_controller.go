package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"fiich/models"
	"fiich/services"
	"fiich/utils"
)

type MembershipController struct {
	Memberships *services.MembershipService
	Access      *services.AccessService
	Logger      *log.Logger
}

func NewMembershipController(memberships *services.MembershipService, access *services.AccessService, logger *log.Logger) *MembershipController {
	return &MembershipController{Memberships: memberships, Access: access, Logger: logger}
}

// EnsureMemberships is the idempotent maintenance call backfilling owner
// membership rows for the caller's companies.
func (mc *MembershipController) EnsureMemberships(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	result, err := mc.Memberships.EnsureOwnerMemberships(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(utils.SuccessResponse(result))
}

// ListMembers returns a company's membership rows. Internal team only:
// shared-level access is not enough.
func (mc *MembershipController) ListMembers(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := utils.ParseUint(c.Params("id"))

	access, err := mc.Access.ResolveForUser(c.Context(), user.ID, companyID)
	if err != nil {
		return respondError(c, err)
	}
	if access.Level == services.AccessShared {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You are not allowed to perform this action", nil)
	}

	members, err := mc.Memberships.ListMembers(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"members": members})
}
