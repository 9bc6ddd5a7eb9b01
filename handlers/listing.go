package handlers

import (
	"net/http"
	"strconv"

	"legal_connect_go/db"
	"legal_connect_go/middleware"
	"legal_connect_go/models"
	"legal_connect_go/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GetListingsHandler lists active housing and job postings
func GetListingsHandler(c echo.Context) error {
	query := db.DB.Model(&models.Listing{}).Where("is_active = ?", true)

	if kind := c.QueryParam("kind"); kind != "" {
		if !models.IsValidListingKind(kind) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid listing kind")
		}
		query = query.Where("kind = ?", kind)
	}
	if city := c.QueryParam("city"); city != "" {
		query = query.Where("city LIKE ?", "%"+city+"%")
	}
	if maxAmount := c.QueryParam("max_amount"); maxAmount != "" {
		if value, err := strconv.ParseFloat(maxAmount, 64); err == nil {
			query = query.Where("amount IS NULL OR amount <= ?", value)
		}
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count listings")
	}

	var listings []models.Listing
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&listings).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch listings")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": listings,
		"pagination": map[string]interface{}{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetListingHandler returns a single active listing
func GetListingHandler(c echo.Context) error {
	var listing models.Listing
	err := db.DB.Preload("Owner").
		Where("id = ? AND is_active = ?", c.Param("id"), true).
		First(&listing).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Listing not found")
	}
	return c.JSON(http.StatusOK, listing)
}

// CreateListingRequest is the body for creating a posting
type CreateListingRequest struct {
	Kind         string   `json:"kind"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	City         string   `json:"city"`
	Amount       *float64 `json:"amount"`
	Currency     string   `json:"currency"`
	ContactEmail *string  `json:"contact_email"`
	ContactPhone *string  `json:"contact_phone"`
}

// Validate applies the posting rules
func (r CreateListingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Kind, validation.Required, validation.In(models.ListingKindHousing, models.ListingKindJob)),
		validation.Field(&r.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.City, validation.Required),
		validation.Field(&r.Currency, validation.Length(3, 3)),
	)
}

// CreateListingHandler publishes a new housing or job posting
func CreateListingHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": "Validation failed",
			"errors": err,
		})
	}

	listing := models.Listing{
		Kind:         req.Kind,
		Title:        services.SanitizeText(req.Title),
		Description:  services.SanitizeText(req.Description),
		City:         services.SanitizeText(req.City),
		Amount:       req.Amount,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		OwnerID:      currentUser.ID,
		IsActive:     true,
	}
	if req.Currency != "" {
		listing.Currency = req.Currency
	}

	if err := db.DB.Create(&listing).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create listing")
	}

	return c.JSON(http.StatusCreated, listing)
}

// DeactivateListingHandler hides a posting. Owner or admin only.
func DeactivateListingHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	var listing models.Listing
	if err := db.DB.Where("id = ?", c.Param("id")).First(&listing).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Listing not found")
	}
	if listing.OwnerID != currentUser.ID && currentUser.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusNotFound, "Listing not found")
	}

	err := db.DB.Model(&listing).Update("is_active", false).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to deactivate listing")
	}

	return c.NoContent(http.StatusNoContent)
}
