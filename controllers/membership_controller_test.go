package controller

import (
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fiich/models"
	"fiich/services"
)

func setupMembershipTestApp(t *testing.T, user *models.User) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.CompanyDocument{},
		&models.CompanyMember{},
		&models.CompanyShare{},
		&models.Invitation{},
	))

	logger := log.New(io.Discard, "", 0)
	memberships := services.NewMembershipService(db, logger)
	shares := services.NewShareService(db, logger)
	access := services.NewAccessService(db, shares, memberships, logger)
	ctrl := NewMembershipController(memberships, access, logger)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", user)
		return c.Next()
	})
	app.Post("/memberships/ensure", ctrl.EnsureMemberships)
	return app, db
}

func TestEnsureMembershipsEndpoint(t *testing.T) {
	owner := &models.User{Email: "owner@example.com", PasswordHash: "x", IsActive: true}
	app, db := setupMembershipTestApp(t, owner)
	require.NoError(t, db.Create(owner).Error)

	// A company without its owner membership row.
	require.NoError(t, db.Create(&models.Company{OwnerID: owner.ID, Name: "Acme"}).Error)

	resp, err := app.Test(httptest.NewRequest("POST", "/memberships/ensure", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			CompaniesOwned int `json:"companies_owned"`
			AlreadyPresent int `json:"already_present"`
			Created        int `json:"created"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Data.CompaniesOwned)
	assert.Equal(t, 0, body.Data.AlreadyPresent)
	assert.Equal(t, 1, body.Data.Created)

	var count int64
	require.NoError(t, db.Model(&models.CompanyMember{}).
		Where("user_id = ? AND role = ?", owner.ID, models.RoleOwner).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
