package handlers

import (
	"errors"
	"net/http"

	"legal_connect_go/db"
	"legal_connect_go/middleware"
	"legal_connect_go/models"
	"legal_connect_go/services"

	"github.com/labstack/echo/v4"
)

// GetPlansHandler lists the available subscription plans
func GetPlansHandler(c echo.Context) error {
	var plans []models.Plan
	if err := db.DB.Order("monthly_price ASC").Find(&plans).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch plans")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": plans})
}

// GetMySubscriptionHandler returns the caller's active subscription,
// or the free plan defaults when none exists.
func GetMySubscriptionHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	sub, err := services.GetActiveSubscription(db.DB, currentUser.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch subscription")
	}
	if sub != nil {
		return c.JSON(http.StatusOK, sub)
	}

	var free models.Plan
	if err := db.DB.Where("slug = ?", models.PlanFree).First(&free).Error; err != nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"plan": nil})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"plan": free})
}

// SubscribeRequest selects a plan by slug
type SubscribeRequest struct {
	PlanSlug string `json:"plan_slug"`
}

// SubscribeHandler puts the caller on a plan
func SubscribeHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	var req SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	var plan models.Plan
	if err := db.DB.Where("slug = ?", req.PlanSlug).First(&plan).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Plan not found")
	}

	sub, err := services.Subscribe(db.DB, currentUser, &plan)
	if err != nil {
		if errors.Is(err, services.ErrAlreadySubscribed) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to subscribe")
	}

	return c.JSON(http.StatusCreated, sub)
}
