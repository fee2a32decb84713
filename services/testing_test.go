package services

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fiich/models"
)

// setupTestDB initializes an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.CompanyDocument{},
		&models.CompanyMember{},
		&models.CompanyShare{},
		&models.Invitation{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCompany(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Company {
	t.Helper()
	company := &models.Company{
		OwnerID: owner.ID,
		Name:    name,
	}
	require.NoError(t, db.Create(company).Error)
	return company
}

type sentEmail struct {
	To           string
	CompanyName  string
	InviterEmail string
	Token        string
	Message      string
}

// fakeMailer records outbound invitation emails instead of sending them.
type fakeMailer struct {
	sent    []sentEmail
	failErr error
}

func (m *fakeMailer) SendInvitationEmail(to, companyName, inviterEmail, token, message string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, sentEmail{
		To:           to,
		CompanyName:  companyName,
		InviterEmail: inviterEmail,
		Token:        token,
		Message:      message,
	})
	return nil
}
