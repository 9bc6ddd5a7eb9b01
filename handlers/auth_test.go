package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"legal_connect_go/db"
	"legal_connect_go/models"
	"legal_connect_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRegisterHandler(t *testing.T) {
	setupTestDB(t)

	body := `{"name":"Iryna Bondar","email":"iryna@example.com","password":"password123"}`
	_, c, rec := setupEcho(http.MethodPost, "/api/auth/register", strings.NewReader(body))

	assert.NoError(t, RegisterHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, "iryna@example.com", user.Email)

	// The password hash never leaves the server
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterHandler_WeakPassword422(t *testing.T) {
	setupTestDB(t)

	body := `{"name":"Iryna","email":"iryna@example.com","password":"short"}`
	_, c, _ := setupEcho(http.MethodPost, "/api/auth/register", strings.NewReader(body))

	err := RegisterHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)
}

func TestRegisterHandler_DuplicateEmail409(t *testing.T) {
	setupTestDB(t)

	_, err := services.RegisterUser(db.DB, "First", "taken@example.com", "password123", "")
	assert.NoError(t, err)

	body := `{"name":"Second","email":"taken@example.com","password":"password123"}`
	_, c, _ := setupEcho(http.MethodPost, "/api/auth/register", strings.NewReader(body))

	handlerErr := RegisterHandler(c)
	httpErr, ok := handlerErr.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestLoginHandler(t *testing.T) {
	setupTestDB(t)

	_, err := services.RegisterUser(db.DB, "Iryna", "iryna@example.com", "password123", "")
	assert.NoError(t, err)

	body := `{"email":"iryna@example.com","password":"password123"}`
	_, c, rec := setupEcho(http.MethodPost, "/api/auth/login", strings.NewReader(body))

	assert.NoError(t, LoginHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "iryna@example.com", response.User.Email)
}

func TestLoginHandler_WrongPassword401(t *testing.T) {
	setupTestDB(t)

	_, err := services.RegisterUser(db.DB, "Iryna", "iryna@example.com", "password123", "")
	assert.NoError(t, err)

	body := `{"email":"iryna@example.com","password":"wrong-password"}`
	_, c, _ := setupEcho(http.MethodPost, "/api/auth/login", strings.NewReader(body))

	handlerErr := LoginHandler(c)
	httpErr, ok := handlerErr.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestGetCurrentUserHandler(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, models.RoleStudent)

	_, c, rec := setupEcho(http.MethodGet, "/api/me", nil)
	authenticateAs(c, user)

	assert.NoError(t, GetCurrentUserHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.User
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, user.ID, response.ID)
}
