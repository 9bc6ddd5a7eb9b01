package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"legal_connect_go/db"
	"legal_connect_go/middleware"
	"legal_connect_go/models"
	"legal_connect_go/services"

	"github.com/labstack/echo/v4"
)

// GetUniversitiesHandler lists active universities with catalog filters
func GetUniversitiesHandler(c echo.Context) error {
	query := db.DB.Model(&models.University{}).Where("is_active = ?", true)

	if country := strings.ToUpper(c.QueryParam("country")); country != "" {
		query = query.Where("country = ?", country)
	}
	if city := c.QueryParam("city"); city != "" {
		query = query.Where("city LIKE ?", "%"+city+"%")
	}
	if level := c.QueryParam("degree_level"); level != "" {
		query = query.Where("degree_levels LIKE ?", "%"+level+"%")
	}
	if keyword := c.QueryParam("search"); keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if maxTuition := c.QueryParam("max_tuition"); maxTuition != "" {
		if value, err := strconv.ParseFloat(maxTuition, 64); err == nil {
			query = query.Where("tuition_min IS NULL OR tuition_min <= ?", value)
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
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count universities")
	}

	var universities []models.University
	err := query.Order("ranking IS NULL, ranking ASC, name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&universities).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch universities")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": universities,
		"pagination": map[string]interface{}{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetUniversityHandler returns a single university
func GetUniversityHandler(c echo.Context) error {
	var university models.University
	err := db.DB.Where("id = ? AND is_active = ?", c.Param("id"), true).
		First(&university).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "University not found")
	}
	return c.JSON(http.StatusOK, university)
}

// ChatRequest is a consultation message about a university
type ChatRequest struct {
	Message string `json:"message"`
}

// UniversityChatHandler proxies a consultation question to the AI
// upstream. Upstream errors are returned with their original detail;
// no answer is ever synthesized locally.
func UniversityChatHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)
	cfg := middleware.GetConfig(c)

	var university models.University
	err := db.DB.Where("id = ? AND is_active = ?", c.Param("id"), true).
		First(&university).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "University not found")
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	reply, err := services.SendConsultationMessage(c.Request().Context(), db.DB, cfg, currentUser, &university, req.Message)
	if err != nil {
		var upstream *services.ChatUpstreamError
		switch {
		case errors.As(err, &upstream):
			return c.JSON(http.StatusBadGateway, map[string]interface{}{
				"detail":          upstream.Detail,
				"upstream_status": upstream.StatusCode,
			})
		case errors.Is(err, services.ErrChatLimitReached):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrChatNotConfigured):
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"reply": reply})
}

// GetChatHistoryHandler returns the caller's consultation history for a university
func GetChatHistoryHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	var messages []models.ChatMessage
	err := db.DB.Where("user_id = ? AND university_id = ?", currentUser.ID, c.Param("id")).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch chat history")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": messages})
}
