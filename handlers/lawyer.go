package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"legal_connect_go/db"
	"legal_connect_go/middleware"
	"legal_connect_go/models"
	"legal_connect_go/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
)

// documentFormFields maps each required document type to its multipart field name
var documentFormFields = map[string]string{
	models.LawyerDocLicense:  "license_document",
	models.LawyerDocDiploma:  "diploma_document",
	models.LawyerDocIdentity: "identity_document",
}

// RegisterLawyerHandler accepts the single multipart submission the
// registration wizard assembles: profile fields, taxonomy selections,
// and the three required documents.
func RegisterLawyerHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	experienceYears, _ := strconv.Atoi(c.FormValue("experience_years"))
	params := services.RegisterLawyerParams{
		Jurisdiction:      c.FormValue("jurisdiction"),
		FullName:          c.FormValue("full_name"),
		LicenseNumber:     c.FormValue("license_number"),
		BarAssociation:    c.FormValue("bar_association"),
		ExperienceYears:   experienceYears,
		SpecializationIDs: splitFormList(c.FormValue("specialization_ids")),
		Languages:         splitFormList(c.FormValue("languages")),
	}

	documents := make(map[string]*multipart.FileHeader)
	for docType, field := range documentFormFields {
		file, err := c.FormFile(field)
		if err != nil {
			continue // missing documents are reported by the service
		}
		if err := validateUpload(file.Filename, file.Size); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		documents[docType] = file
	}

	profile, err := services.RegisterLawyer(c.Request().Context(), db.DB, currentUser, params, documents)
	if err != nil {
		var validationErrs validation.Errors
		switch {
		case errors.As(err, &validationErrs):
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"detail": "Validation failed",
				"errors": validationErrs,
			})
		case errors.Is(err, services.ErrMissingDocuments):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, services.ErrAlreadyRegistered):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"profile": profile,
		"locale":  services.LocaleForJurisdiction(profile.Jurisdiction),
	})
}

// GetMyLawyerProfileHandler returns the caller's own lawyer profile
func GetMyLawyerProfileHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	var profile models.LawyerProfile
	err := db.DB.Preload("Specializations").Preload("Documents").
		Where("user_id = ?", currentUser.ID).First(&profile).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Lawyer profile not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"profile": profile,
		"locale":  services.LocaleForJurisdiction(profile.Jurisdiction),
	})
}

// GetJurisdictionsHandler lists supported jurisdictions with the locale
// each one maps to, so clients apply locale as an explicit choice.
func GetJurisdictionsHandler(c echo.Context) error {
	codes := services.SupportedJurisdictions()
	data := make([]map[string]string, 0, len(codes))
	for _, code := range codes {
		data = append(data, map[string]string{
			"code":   code,
			"locale": services.LocaleForJurisdiction(code),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": data})
}

// GetSpecialtiesHandler lists active practice areas for the wizard
func GetSpecialtiesHandler(c echo.Context) error {
	var specialties []models.LegalSpecialty
	if err := db.DB.Where("is_active = ?", true).Order("name ASC").Find(&specialties).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch specialties")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": specialties})
}

func splitFormList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
