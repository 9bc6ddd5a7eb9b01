package handlers

import (
	"net/http"

	"legal_connect_go/db"
	"legal_connect_go/middleware"
	"legal_connect_go/models"
	"legal_connect_go/services"

	"github.com/labstack/echo/v4"
)

// GetLawyerDashboardHandler aggregates the caller's assigned caseload
func GetLawyerDashboardHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	dashboard, err := services.GetLawyerDashboard(db.DB, currentUser.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build dashboard")
	}

	return c.JSON(http.StatusOK, dashboard)
}

// AvailabilityRequest toggles whether the lawyer accepts new assignments
type AvailabilityRequest struct {
	Available bool `json:"available"`
}

// SetAvailabilityHandler updates the caller's availability flag.
// Only verified lawyers can change it.
func SetAvailabilityHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	var profile models.LawyerProfile
	if err := db.DB.Where("user_id = ?", currentUser.ID).First(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Lawyer profile not found")
	}

	if err := services.SetLawyerAvailability(db.DB, &profile, req.Available); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"is_available": profile.IsAvailable,
	})
}
