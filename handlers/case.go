package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"legal_connect_go/db"
	"legal_connect_go/middleware"
	"legal_connect_go/models"
	"legal_connect_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type createCaseRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Priority     string   `json:"priority"`
	Deadline     *string  `json:"deadline"` // 2006-01-02
	ClaimAmount  *float64 `json:"claim_amount"`
	ContactName  *string  `json:"contact_name"`
	ContactPhone *string  `json:"contact_phone"`
	ContactEmail *string  `json:"contact_email"`
}

type updateCaseRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Priority     *string  `json:"priority"`
	Deadline     *string  `json:"deadline"`
	ClaimAmount  *float64 `json:"claim_amount"`
	ContactName  *string  `json:"contact_name"`
	ContactPhone *string  `json:"contact_phone"`
	ContactEmail *string  `json:"contact_email"`
}

// caseResponse wraps a case with the transitions the server will accept,
// so clients can render actions without hardcoding the table.
type caseResponse struct {
	*models.Case
	AllowedTransitions []string `json:"allowed_transitions"`
}

func newCaseResponse(caseRecord *models.Case) caseResponse {
	return caseResponse{Case: caseRecord, AllowedTransitions: caseRecord.AllowedTransitions()}
}

// caseScopedQuery returns a query restricted to cases the user may see
func caseScopedQuery(user *models.User) *gorm.DB {
	query := db.DB.Model(&models.Case{})
	switch user.Role {
	case models.RoleAdmin:
		return query
	case models.RoleLawyer:
		return query.Where("owner_id = ? OR assigned_to_id = ?", user.ID, user.ID)
	default:
		return query.Where("owner_id = ?", user.ID)
	}
}

// fetchScopedCase loads one case the user may access, or errors with 404
func fetchScopedCase(c echo.Context, id string) (*models.Case, error) {
	user := middleware.GetCurrentUser(c)

	var caseRecord models.Case
	err := db.DB.Preload("Owner").Preload("AssignedTo").First(&caseRecord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}
	if !services.CanAccessCase(&caseRecord, user) {
		// Hide existence from unauthorized users
		return nil, echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	return &caseRecord, nil
}

// GetCasesHandler returns a list of cases with filtering and pagination
func GetCasesHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	status := c.QueryParam("status")
	priority := c.QueryParam("priority")
	keyword := c.QueryParam("keyword")

	page := 1
	limit := 20
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			page = p
		}
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	query := caseScopedQuery(currentUser)

	if status != "" && models.IsValidCaseStatus(status) {
		query = query.Where("status = ?", status)
	}
	if priority != "" && models.IsValidCasePriority(priority) {
		query = query.Where("priority = ?", priority)
	}
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count cases")
	}

	offset := (page - 1) * limit
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	var cases []models.Case
	if err := query.
		Preload("Owner").
		Preload("AssignedTo").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&cases).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch cases")
	}

	data := make([]caseResponse, 0, len(cases))
	for i := range cases {
		data = append(data, newCaseResponse(&cases[i]))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": data,
		"pagination": map[string]interface{}{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

// CreateCaseHandler creates a case in draft for the authenticated user
func CreateCaseHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	var req createCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" || req.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Title and description are required")
	}

	params := services.CreateCaseParams{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		ClaimAmount:  req.ClaimAmount,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
	}
	if req.Deadline != nil && *req.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", *req.Deadline)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid deadline format, expected YYYY-MM-DD")
		}
		params.Deadline = &deadline
	}

	caseRecord, err := services.CreateCase(db.DB, params, currentUser)
	if err != nil {
		if errors.Is(err, services.ErrCaseLimitReached) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, newCaseResponse(caseRecord))
}

// GetCaseHandler returns one case with its documents and audit trail
func GetCaseHandler(c echo.Context) error {
	caseRecord, err := fetchScopedCase(c, c.Param("id"))
	if err != nil {
		return err
	}

	if err := db.DB.Preload("Documents").Preload("Logs", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	}).First(caseRecord, "id = ?", caseRecord.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}

	return c.JSON(http.StatusOK, newCaseResponse(caseRecord))
}

// UpdateCaseHandler updates mutable case fields and writes one updated log entry
func UpdateCaseHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	caseRecord, err := fetchScopedCase(c, c.Param("id"))
	if err != nil {
		return err
	}
	if caseRecord.IsTerminal() {
		return echo.NewHTTPError(http.StatusConflict, "Case is in a terminal status and cannot be edited")
	}

	var req updateCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if *req.Title == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Title cannot be empty")
		}
		updates["title"] = services.SanitizeText(*req.Title)
	}
	if req.Description != nil {
		if *req.Description == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Description cannot be empty")
		}
		updates["description"] = services.SanitizeText(*req.Description)
	}
	if req.Priority != nil {
		if !models.IsValidCasePriority(*req.Priority) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid priority")
		}
		updates["priority"] = *req.Priority
	}
	if req.Deadline != nil {
		if *req.Deadline == "" {
			updates["deadline"] = nil
		} else {
			deadline, err := time.Parse("2006-01-02", *req.Deadline)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid deadline format, expected YYYY-MM-DD")
			}
			updates["deadline"] = deadline
		}
	}
	if req.ClaimAmount != nil {
		updates["claim_amount"] = *req.ClaimAmount
	}
	if req.ContactName != nil {
		updates["contact_name"] = *req.ContactName
	}
	if req.ContactPhone != nil {
		updates["contact_phone"] = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		updates["contact_email"] = *req.ContactEmail
	}

	if len(updates) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No fields to update")
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Case{}).Where("id = ?", caseRecord.ID).Updates(updates).Error; err != nil {
			return err
		}
		return services.AppendCaseLog(tx, caseRecord.ID, models.CaseLogUpdated, currentUser, nil, nil, nil)
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update case")
	}

	if err := db.DB.Preload("Owner").Preload("AssignedTo").First(caseRecord, "id = ?", caseRecord.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}

	return c.JSON(http.StatusOK, newCaseResponse(caseRecord))
}
