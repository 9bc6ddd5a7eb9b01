package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"legal_connect_go/db"
	"legal_connect_go/middleware"
	"legal_connect_go/models"
	"legal_connect_go/services"

	"github.com/labstack/echo/v4"
)

// GetVerificationQueueHandler lists lawyer profiles by verification
// status for the admin review screen. Defaults to the pending queue.
func GetVerificationQueueHandler(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = models.VerificationPending
	}

	profiles, err := services.GetLawyersByVerificationStatus(db.DB, status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  profiles,
		"total": len(profiles),
	})
}

// VerifyLawyerHandler approves a pending profile. The profile leaves
// the pending queue only after the update has committed; the email is
// sent afterwards and a failure there does not undo the approval.
func VerifyLawyerHandler(c echo.Context) error {
	admin := middleware.GetCurrentUser(c)
	cfg := middleware.GetConfig(c)

	profile, err := fetchLawyerProfile(c.Param("id"))
	if err != nil {
		return err
	}

	if err := services.VerifyLawyer(db.DB, profile, admin); err != nil {
		if errors.Is(err, services.ErrNotPending) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify lawyer")
	}

	lang := "en"
	if profile.User != nil && profile.User.Locale != "" {
		lang = profile.User.Locale
	}
	if err := services.SendLawyerVerifiedEmail(cfg, profile, lang); err != nil {
		log.Printf("[EMAIL] Failed to send verification email for profile %s: %v", profile.ID, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"profile": profile})
}

// VerificationDecisionRequest carries the admin's rejection reason
type VerificationDecisionRequest struct {
	Reason string `json:"reason"`
}

// RejectLawyerHandler rejects a pending profile. A reason shorter than
// the minimum is refused with 422 and the profile stays pending.
func RejectLawyerHandler(c echo.Context) error {
	admin := middleware.GetCurrentUser(c)
	cfg := middleware.GetConfig(c)

	var req VerificationDecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	profile, err := fetchLawyerProfile(c.Param("id"))
	if err != nil {
		return err
	}

	if err := services.RejectLawyer(db.DB, profile, admin, req.Reason); err != nil {
		switch {
		case errors.Is(err, services.ErrRejectionReasonTooShort):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, services.ErrNotPending):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reject lawyer")
		}
	}

	lang := "en"
	if profile.User != nil && profile.User.Locale != "" {
		lang = profile.User.Locale
	}
	if err := services.SendLawyerRejectedEmail(cfg, profile, *profile.RejectionReason, lang); err != nil {
		log.Printf("[EMAIL] Failed to send rejection email for profile %s: %v", profile.ID, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"profile": profile})
}

func fetchLawyerProfile(id string) (*models.LawyerProfile, error) {
	var profile models.LawyerProfile
	err := db.DB.Preload("User").Preload("Specializations").Preload("Documents").
		Where("id = ?", id).First(&profile).Error
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Lawyer profile not found")
	}
	return &profile, nil
}

// DownloadLawyerDocumentHandler streams a verification document for
// admin review.
func DownloadLawyerDocumentHandler(c echo.Context) error {
	var document models.LawyerDocument
	err := db.DB.Where("id = ? AND profile_id = ?", c.Param("docId"), c.Param("id")).
		First(&document).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), document.StorageKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read document")
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, document.FileOriginalName))
	return c.Stream(http.StatusOK, contentType, reader)
}
