package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"legal_connect_go/db"
	"legal_connect_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func createPendingProfile(t *testing.T) (*models.User, *models.LawyerProfile) {
	user := createUser(t, models.RoleLawyer)
	profile := &models.LawyerProfile{
		UserID:             user.ID,
		Jurisdiction:       "UA",
		FullName:           "Olena Kovalenko",
		LicenseNumber:      "UA-12345",
		BarAssociation:     "Kyiv Bar Association",
		ExperienceYears:    5,
		Languages:          "uk,en",
		VerificationStatus: models.VerificationPending,
	}
	assert.NoError(t, db.DB.Create(profile).Error)
	return user, profile
}

func TestGetVerificationQueueHandler_DefaultsToPending(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, models.RoleAdmin)
	createPendingProfile(t)

	// A verified profile stays out of the default queue
	verifiedUser := createUser(t, models.RoleLawyer)
	assert.NoError(t, db.DB.Create(&models.LawyerProfile{
		UserID:             verifiedUser.ID,
		Jurisdiction:       "PL",
		FullName:           "Jan Kowalski",
		LicenseNumber:      "PL-777",
		BarAssociation:     "Warsaw Bar",
		ExperienceYears:    3,
		VerificationStatus: models.VerificationVerified,
	}).Error)

	_, c, rec := setupEcho(http.MethodGet, "/api/admin/lawyers", nil)
	authenticateAs(c, admin)

	assert.NoError(t, GetVerificationQueueHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Data  []models.LawyerProfile `json:"data"`
		Total int                    `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Total)
	assert.Equal(t, models.VerificationPending, response.Data[0].VerificationStatus)
}

func TestVerifyLawyerHandler(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, models.RoleAdmin)
	_, profile := createPendingProfile(t)

	_, c, rec := setupEcho(http.MethodPost, "/api/admin/lawyers/"+profile.ID+"/verify", nil)
	c.SetParamNames("id")
	c.SetParamValues(profile.ID)
	authenticateAs(c, admin)

	assert.NoError(t, VerifyLawyerHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stored models.LawyerProfile
	assert.NoError(t, db.DB.First(&stored, "id = ?", profile.ID).Error)
	assert.Equal(t, models.VerificationVerified, stored.VerificationStatus)
	assert.True(t, stored.IsAvailable)
	assert.Equal(t, admin.ID, *stored.VerifiedByID)
}

func TestVerifyLawyerHandler_NotPending409(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, models.RoleAdmin)
	_, profile := createPendingProfile(t)
	assert.NoError(t, db.DB.Model(profile).Update("verification_status", models.VerificationRejected).Error)

	_, c, _ := setupEcho(http.MethodPost, "/api/admin/lawyers/"+profile.ID+"/verify", nil)
	c.SetParamNames("id")
	c.SetParamValues(profile.ID)
	authenticateAs(c, admin)

	err := VerifyLawyerHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestRejectLawyerHandler_ShortReason422(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, models.RoleAdmin)
	_, profile := createPendingProfile(t)

	_, c, _ := setupEcho(http.MethodPost, "/api/admin/lawyers/"+profile.ID+"/reject",
		strings.NewReader(`{"reason":"too short"}`))
	c.SetParamNames("id")
	c.SetParamValues(profile.ID)
	authenticateAs(c, admin)

	err := RejectLawyerHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)

	// The profile is still pending; nothing committed
	var stored models.LawyerProfile
	assert.NoError(t, db.DB.First(&stored, "id = ?", profile.ID).Error)
	assert.Equal(t, models.VerificationPending, stored.VerificationStatus)
	assert.Nil(t, stored.RejectionReason)
}

func TestRejectLawyerHandler(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, models.RoleAdmin)
	_, profile := createPendingProfile(t)

	reason := "License number could not be confirmed with the bar registry"
	_, c, rec := setupEcho(http.MethodPost, "/api/admin/lawyers/"+profile.ID+"/reject",
		strings.NewReader(`{"reason":"`+reason+`"}`))
	c.SetParamNames("id")
	c.SetParamValues(profile.ID)
	authenticateAs(c, admin)

	assert.NoError(t, RejectLawyerHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stored models.LawyerProfile
	assert.NoError(t, db.DB.First(&stored, "id = ?", profile.ID).Error)
	assert.Equal(t, models.VerificationRejected, stored.VerificationStatus)
	assert.Equal(t, reason, *stored.RejectionReason)
	assert.False(t, stored.IsAvailable)
}

func TestVerifyLawyerHandler_UnknownProfile404(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, models.RoleAdmin)

	_, c, _ := setupEcho(http.MethodPost, "/api/admin/lawyers/ghost/verify", nil)
	c.SetParamNames("id")
	c.SetParamValues("ghost")
	authenticateAs(c, admin)

	err := VerifyLawyerHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
