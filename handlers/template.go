package handlers

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"legal_connect_go/db"
	"legal_connect_go/middleware"
	"legal_connect_go/models"
	"legal_connect_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GetTemplatesHandler lists available document templates
func GetTemplatesHandler(c echo.Context) error {
	var templates []models.DocumentTemplate
	err := db.DB.Preload("UploadedBy").Order("name ASC").Find(&templates).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch templates")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  templates,
		"total": len(templates),
	})
}

// UploadTemplateHandler stores an HTML template under a unique name.
// Re-uploading an existing name replaces its content.
func UploadTemplateHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Template name is required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Template file is required")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".html" && ext != ".htm" {
		return echo.NewHTTPError(http.StatusBadRequest, "Templates must be HTML files")
	}
	if file.Size > MaxUploadSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Template file too large")
	}

	ctx := c.Request().Context()
	key := services.GenerateTemplateKey(name, file.Filename)
	result, err := services.Storage.Upload(ctx, file, key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store template")
	}

	var description *string
	if d := strings.TrimSpace(c.FormValue("description")); d != "" {
		description = &d
	}

	var tmpl models.DocumentTemplate
	err = db.DB.Where("name = ?", name).First(&tmpl).Error
	switch {
	case err == nil:
		oldKey := tmpl.StorageKey
		updates := map[string]interface{}{
			"storage_key":    result.Key,
			"file_size":      result.FileSize,
			"mime_type":      result.MimeType,
			"description":    description,
			"uploaded_by_id": currentUser.ID,
		}
		if err := db.DB.Model(&tmpl).Updates(updates).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update template")
		}
		if oldKey != result.Key {
			if err := services.Storage.Delete(ctx, oldKey); err != nil {
				log.Printf("[STORAGE] Failed to remove replaced template %s: %v", oldKey, err)
			}
		}
		return c.JSON(http.StatusOK, tmpl)
	case err == gorm.ErrRecordNotFound:
		tmpl = models.DocumentTemplate{
			Name:         name,
			Description:  description,
			StorageKey:   result.Key,
			FileSize:     result.FileSize,
			MimeType:     result.MimeType,
			UploadedByID: &currentUser.ID,
		}
		if err := db.DB.Create(&tmpl).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save template")
		}
		return c.JSON(http.StatusCreated, tmpl)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to look up template")
	}
}

// DeleteTemplateHandler removes a template by name
func DeleteTemplateHandler(c echo.Context) error {
	name := c.Param("name")

	var tmpl models.DocumentTemplate
	if err := db.DB.Where("name = ?", name).First(&tmpl).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Template not found")
	}

	if err := db.DB.Unscoped().Delete(&tmpl).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete template")
	}

	if err := services.Storage.Delete(c.Request().Context(), tmpl.StorageKey); err != nil {
		log.Printf("[STORAGE] Failed to remove template file %s: %v", tmpl.StorageKey, err)
	}

	return c.NoContent(http.StatusNoContent)
}
