package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fiich/models"
	"fiich/services"
	"fiich/utils"
)

type CompanyController struct {
	DB     *gorm.DB
	Access *services.AccessService
	Logger *log.Logger
}

func NewCompanyController(db *gorm.DB, access *services.AccessService, logger *log.Logger) *CompanyController {
	return &CompanyController{DB: db, Access: access, Logger: logger}
}

type CreateCompanyRequest struct {
	Name               string `json:"name" validate:"required,max=200"`
	Email              string `json:"email" validate:"omitempty,email"`
	Phone              string `json:"phone"`
	Website            string `json:"website"`
	Address            string `json:"address"`
	City               string `json:"city"`
	Country            string `json:"country"`
	VATNumber          string `json:"vat_number"`
	RegistrationNumber string `json:"registration_number"`
	LogoURL            string `json:"logo_url"`
}

type AddDocumentRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	IsPublic    bool   `json:"is_public"`
}

// CreateCompany inserts the profile and its owner membership row.
func (cc *CompanyController) CreateCompany(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req CreateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	company := models.Company{
		OwnerID:            user.ID,
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Website:            req.Website,
		Address:            req.Address,
		City:               req.City,
		Country:            req.Country,
		VATNumber:          req.VATNumber,
		RegistrationNumber: req.RegistrationNumber,
		LogoURL:            req.LogoURL,
	}
	if err := cc.DB.Create(&company).Error; err != nil {
		utils.CaptureError(err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create company", nil)
	}

	member := models.CompanyMember{
		CompanyID: company.ID,
		UserID:    user.ID,
		Role:      models.RoleOwner,
		Status:    models.MemberActive,
	}
	if err := cc.DB.Create(&member).Error; err != nil {
		// Ensure-membership reconciliation backfills this later.
		cc.Logger.Printf("Failed to create owner membership for company %d: %v", company.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Company created successfully",
		"company": company,
	})
}

// GetCompanies lists companies the user owns or is an active member of.
func (cc *CompanyController) GetCompanies(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var companies []models.Company
	err := cc.DB.
		Distinct("companies.*").
		Joins("LEFT JOIN company_members ON company_members.company_id = companies.id AND company_members.deleted_at IS NULL").
		Where("companies.owner_id = ?", user.ID).
		Or("company_members.user_id = ? AND company_members.status = ?", user.ID, models.MemberActive).
		Find(&companies).Error
	if err != nil {
		utils.CaptureError(err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list companies", nil)
	}

	return c.JSON(fiber.Map{"companies": companies})
}

// GetCompany resolves the requester's access and returns the permitted
// view.
func (cc *CompanyController) GetCompany(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := utils.ParseUint(c.Params("id"))

	access, err := cc.Access.ResolveForUser(c.Context(), user.ID, companyID)
	if err != nil {
		return respondError(c, err)
	}

	view, err := cc.Access.CompanyView(c.Context(), access)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(view)
}

// AddDocument attaches document metadata to a company. Bytes live in
// object storage; this core only records the reference.
func (cc *CompanyController) AddDocument(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := utils.ParseUint(c.Params("id"))

	var req AddDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var company models.Company
	if err := cc.DB.First(&company, companyID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Resource not found", nil)
	}
	if company.OwnerID != user.ID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You are not allowed to perform this action", nil)
	}

	document := models.CompanyDocument{
		CompanyID:   company.ID,
		Title:       req.Title,
		StorageKey:  uuid.NewString(),
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		IsPublic:    req.IsPublic,
	}
	if err := cc.DB.Create(&document).Error; err != nil {
		utils.CaptureError(err, map[string]interface{}{"company_id": company.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create document", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Document added successfully",
		"document": document,
	})
}
