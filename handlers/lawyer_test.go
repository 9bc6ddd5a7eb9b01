package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"

	"legal_connect_go/db"
	"legal_connect_go/models"
	"legal_connect_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type registrationForm struct {
	fields map[string]string
	files  map[string]string // form field -> filename
}

func defaultRegistrationForm(specialtyID string) registrationForm {
	return registrationForm{
		fields: map[string]string{
			"jurisdiction":       "UA",
			"full_name":          "Olena Kovalenko",
			"license_number":     "UA-12345",
			"bar_association":    "Kyiv Bar Association",
			"experience_years":   "5",
			"specialization_ids": specialtyID,
			"languages":          "uk,en",
		},
		files: map[string]string{
			"license_document":  "license.pdf",
			"diploma_document":  "diploma.pdf",
			"identity_document": "passport.pdf",
		},
	}
}

func registerLawyerRequest(t *testing.T, user *models.User, form registrationForm) (*echo.HTTPError, int, []byte) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, value := range form.fields {
		assert.NoError(t, writer.WriteField(field, value))
	}
	for field, filename := range form.files {
		part, err := writer.CreateFormFile(field, filename)
		assert.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 test content"))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())

	_, c, rec := setupEcho(http.MethodPost, "/api/lawyers/register", body)
	c.Request().Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	authenticateAs(c, user)

	err := RegisterLawyerHandler(c)
	if err != nil {
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		return httpErr, httpErr.Code, nil
	}
	return nil, rec.Code, rec.Body.Bytes()
}

func seedSpecialty(t *testing.T) *models.LegalSpecialty {
	specialty := &models.LegalSpecialty{Name: "Civil Law", Slug: "civil-law", IsActive: true}
	assert.NoError(t, db.DB.Create(specialty).Error)
	return specialty
}

func TestRegisterLawyerHandler(t *testing.T) {
	setupTestDB(t)
	specialty := seedSpecialty(t)
	user := createUser(t, models.RoleStudent)

	httpErr, code, body := registerLawyerRequest(t, user, defaultRegistrationForm(specialty.ID))
	assert.Nil(t, httpErr)
	assert.Equal(t, http.StatusCreated, code)

	var response struct {
		Profile models.LawyerProfile `json:"profile"`
		Locale  string               `json:"locale"`
	}
	assert.NoError(t, json.Unmarshal(body, &response))
	assert.Equal(t, models.VerificationPending, response.Profile.VerificationStatus)
	assert.Equal(t, "UA", response.Profile.Jurisdiction)
	assert.Len(t, response.Profile.Documents, 3)
	assert.Equal(t, "uk", response.Locale)

	// The account was promoted to the lawyer role
	var stored models.User
	assert.NoError(t, db.DB.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, models.RoleLawyer, stored.Role)
}

func TestRegisterLawyerHandler_EachDocumentRequired(t *testing.T) {
	setupTestDB(t)
	specialty := seedSpecialty(t)

	for _, missing := range []string{"license_document", "diploma_document", "identity_document"} {
		user := createUser(t, models.RoleStudent)
		form := defaultRegistrationForm(specialty.ID)
		delete(form.files, missing)

		httpErr, code, _ := registerLawyerRequest(t, user, form)
		assert.NotNil(t, httpErr)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
	}

	// No partial profile was created
	var count int64
	db.DB.Model(&models.LawyerProfile{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRegisterLawyerHandler_ValidationErrors(t *testing.T) {
	setupTestDB(t)
	specialty := seedSpecialty(t)
	user := createUser(t, models.RoleStudent)

	form := defaultRegistrationForm(specialty.ID)
	form.fields["jurisdiction"] = "XX"
	form.fields["experience_years"] = "0"

	httpErr, code, _ := registerLawyerRequest(t, user, form)
	assert.Nil(t, httpErr) // validation errors are a JSON body, not an HTTPError
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestRegisterLawyerHandler_DoubleRegistration409(t *testing.T) {
	setupTestDB(t)
	specialty := seedSpecialty(t)
	user := createUser(t, models.RoleStudent)

	_, code, _ := registerLawyerRequest(t, user, defaultRegistrationForm(specialty.ID))
	assert.Equal(t, http.StatusCreated, code)

	httpErr, code, _ := registerLawyerRequest(t, user, defaultRegistrationForm(specialty.ID))
	assert.NotNil(t, httpErr)
	assert.Equal(t, http.StatusConflict, code)
}

func TestGetJurisdictionsHandler(t *testing.T) {
	_, c, rec := setupEcho(http.MethodGet, "/api/jurisdictions", nil)

	assert.NoError(t, GetJurisdictionsHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Data []map[string]string `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, len(services.SupportedJurisdictions()), len(response.Data))

	byCode := make(map[string]string)
	for _, entry := range response.Data {
		byCode[entry["code"]] = entry["locale"]
	}
	assert.Equal(t, "uk", byCode["UA"])
	assert.Equal(t, "en", byCode["PL"])
}
