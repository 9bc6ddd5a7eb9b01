package handlers

import (
	"errors"
	"log"
	"net/http"

	"legal_connect_go/db"
	"legal_connect_go/middleware"
	"legal_connect_go/models"
	"legal_connect_go/services"

	"github.com/labstack/echo/v4"
)

type changeStatusRequest struct {
	NewStatus string `json:"new_status"`
}

type assignCaseRequest struct {
	LawyerID string `json:"lawyer_id"`
}

type addNoteRequest struct {
	Comment string `json:"comment"`
}

// ChangeCaseStatusHandler moves a case to a new status. The server is
// the single authority on legality: a rejected transition returns 409
// with a detail message and mutates nothing.
func ChangeCaseStatusHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	caseRecord, err := fetchScopedCase(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.NewStatus == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new_status is required")
	}

	// Draft submission is the owner's act; other transitions also allow
	// the assigned lawyer or an admin.
	if caseRecord.Status == models.CaseStatusDraft && req.NewStatus == models.CaseStatusSubmitted {
		if caseRecord.OwnerID != currentUser.ID && currentUser.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Only the case owner can submit a draft")
		}
	}

	oldStatus := caseRecord.Status
	if err := services.ChangeCaseStatus(db.DB, caseRecord, req.NewStatus, currentUser); err != nil {
		// The client surfaces detail verbatim; never synthesize a message for it
		var transitionErr *services.TransitionError
		switch {
		case errors.As(err, &transitionErr), errors.Is(err, services.ErrTerminalCase):
			return c.JSON(http.StatusConflict, map[string]string{"detail": err.Error()})
		case errors.Is(err, services.ErrUnknownStatus):
			return c.JSON(http.StatusBadRequest, map[string]string{"detail": err.Error()})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to change status")
		}
	}

	// Notify the owner outside the transaction; a failed email never
	// rolls back a committed transition.
	cfg := middleware.GetConfig(c)
	if cfg != nil && caseRecord.Owner.ID != "" && caseRecord.OwnerID != currentUser.ID {
		lang := middleware.GetLocale(c)
		if err := services.SendCaseStatusEmail(cfg, caseRecord, oldStatus, caseRecord.Status, lang); err != nil {
			log.Printf("[EMAIL] Failed to send status notification for case %s: %v", caseRecord.ID, err)
		}
	}

	// Return the full refreshed record so clients can re-render from
	// server truth instead of merging locally.
	return GetCaseHandler(c)
}

// AssignCaseHandler assigns a verified, available lawyer to a case
func AssignCaseHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Only admins can assign lawyers")
	}

	caseRecord, err := fetchScopedCase(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req assignCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.LawyerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "lawyer_id is required")
	}

	var lawyer models.User
	if err := db.DB.Preload("LawyerProfile").
		Where("role = ? AND is_active = ?", models.RoleLawyer, true).
		First(&lawyer, "id = ?", req.LawyerID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid lawyer selected")
	}
	if lawyer.LawyerProfile == nil || lawyer.LawyerProfile.VerificationStatus != models.VerificationVerified {
		return echo.NewHTTPError(http.StatusBadRequest, "Lawyer is not verified")
	}
	if !lawyer.LawyerProfile.IsAvailable {
		return echo.NewHTTPError(http.StatusConflict, "Lawyer is not accepting new cases")
	}

	if err := services.AssignCase(db.DB, caseRecord, &lawyer, currentUser); err != nil {
		if errors.Is(err, services.ErrTerminalCase) {
			return c.JSON(http.StatusConflict, map[string]string{"detail": err.Error()})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to assign lawyer")
	}

	return GetCaseHandler(c)
}

// AddCaseNoteHandler appends a note to the case audit trail
func AddCaseNoteHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	caseRecord, err := fetchScopedCase(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req addNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	entry, err := services.AddCaseNote(db.DB, caseRecord, req.Comment, currentUser)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment is required")
	}

	return c.JSON(http.StatusCreated, entry)
}

// GetCaseLogsHandler returns the audit trail in chronological order
func GetCaseLogsHandler(c echo.Context) error {
	caseRecord, err := fetchScopedCase(c, c.Param("id"))
	if err != nil {
		return err
	}

	logs, err := services.GetCaseLogs(db.DB, caseRecord.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case logs")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": logs})
}
