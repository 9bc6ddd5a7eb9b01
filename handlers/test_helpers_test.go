package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"legal_connect_go/config"
	"legal_connect_go/db"
	"legal_connect_go/middleware"
	"legal_connect_go/models"
	"legal_connect_go/services"
	"legal_connect_go/services/i18n"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests while keeping one
	// database across connections within a test
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	if services.Storage == nil {
		services.Storage = services.NewLocalStorage(t.TempDir())
	}
	assert.NoError(t, i18n.Load())

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Case{},
		&models.CaseLog{},
		&models.CaseDocument{},
		&models.LawyerProfile{},
		&models.LawyerDocument{},
		&models.LegalSpecialty{},
		&models.DocumentTemplate{},
		&models.University{},
		&models.Listing{},
		&models.Plan{},
		&models.UserSubscription{},
		&models.ChatMessage{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set(middleware.ContextKeyConfig, &config.Config{
		Environment:   "test",
		JWTSecret:     "test-secret-that-is-long-enough-0001",
		TokenTTLHours: 1,
		EmailTestMode: true,
	})

	return e, c, rec
}

func createUser(t *testing.T, role string) *models.User {
	user := &models.User{
		Name:     "Test " + role,
		Email:    role + "-" + uuid.New().String() + "@example.com",
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	assert.NoError(t, db.DB.Create(user).Error)
	return user
}

func authenticateAs(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

func createDraftCase(t *testing.T, owner *models.User) *models.Case {
	caseRecord, err := services.CreateCase(db.DB, services.CreateCaseParams{
		Title:       "Deposit dispute",
		Description: "Landlord refuses to return deposit",
	}, owner)
	assert.NoError(t, err)
	return caseRecord
}

func stringToPtr(s string) *string {
	return &s
}
