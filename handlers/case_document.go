package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"legal_connect_go/db"
	"legal_connect_go/middleware"
	"legal_connect_go/models"
	"legal_connect_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// MaxUploadSize limits a single document upload (20 MB)
const MaxUploadSize = 20 << 20

var allowedUploadExtensions = map[string]bool{
	".pdf": true, ".png": true, ".jpg": true, ".jpeg": true,
	".doc": true, ".docx": true,
}

func validateUpload(filename string, size int64) error {
	if size > MaxUploadSize {
		return fmt.Errorf("file exceeds the %d MB limit", MaxUploadSize>>20)
	}
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || !allowedUploadExtensions[strings.ToLower(filename[idx:])] {
		return fmt.Errorf("unsupported file type")
	}
	return nil
}

// UploadCaseDocumentHandler attaches one or more files to a case.
// Files are uploaded sequentially; each successful upload writes one
// document_uploaded log entry with the document record.
func UploadCaseDocumentHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	caseRecord, err := fetchScopedCase(c, c.Param("id"))
	if err != nil {
		return err
	}
	if caseRecord.IsTerminal() {
		return echo.NewHTTPError(http.StatusConflict, "Documents cannot be added to a closed case")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}
	files := form.File["files"]
	if len(files) == 0 {
		if single, err := c.FormFile("file"); err == nil {
			files = append(files, single)
		}
	}
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No files provided")
	}

	ctx := c.Request().Context()
	var created []models.CaseDocument

	for _, file := range files {
		if err := validateUpload(file.Filename, file.Size); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		key := services.GenerateCaseDocumentKey(caseRecord.ID, file.Filename)
		result, err := services.Storage.Upload(ctx, file, key)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store file")
		}

		doc := models.CaseDocument{
			CaseID:           caseRecord.ID,
			FileName:         result.FileName,
			FileOriginalName: file.Filename,
			StorageKey:       result.Key,
			FileSize:         result.FileSize,
			MimeType:         result.MimeType,
			UploadedByID:     &currentUser.ID,
		}

		err = db.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
			name := file.Filename
			return services.AppendCaseLog(tx, caseRecord.ID, models.CaseLogDocumentUpload, currentUser, nil, &name, nil)
		})
		if err != nil {
			// Keep storage consistent with the database
			_ = services.Storage.Delete(ctx, result.Key)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to record document")
		}

		created = append(created, doc)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"data": created})
}

// DownloadCaseDocumentHandler streams a document back to the client
func DownloadCaseDocumentHandler(c echo.Context) error {
	caseRecord, err := fetchScopedCase(c, c.Param("id"))
	if err != nil {
		return err
	}

	var doc models.CaseDocument
	err = db.DB.Where("case_id = ?", caseRecord.ID).First(&doc, "id = ?", c.Param("docId")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch document")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), doc.StorageKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read file")
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, doc.FileOriginalName))
	return c.Stream(http.StatusOK, contentType, reader)
}

// DeleteCaseDocumentHandler removes a document and writes one
// document_deleted log entry in the same transaction.
func DeleteCaseDocumentHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	caseRecord, err := fetchScopedCase(c, c.Param("id"))
	if err != nil {
		return err
	}

	var doc models.CaseDocument
	err = db.DB.Where("case_id = ?", caseRecord.ID).First(&doc, "id = ?", c.Param("docId")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch document")
	}

	// Only the uploader or an admin may delete
	if currentUser.Role != models.RoleAdmin &&
		(doc.UploadedByID == nil || *doc.UploadedByID != currentUser.ID) {
		return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&doc).Error; err != nil {
			return err
		}
		name := doc.FileOriginalName
		return services.AppendCaseLog(tx, caseRecord.ID, models.CaseLogDocumentDeleted, currentUser, &name, nil, nil)
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete document")
	}

	if err := services.Storage.Delete(c.Request().Context(), doc.StorageKey); err != nil {
		// The database record is already gone; log and continue
		c.Logger().Errorf("failed to delete stored file %s: %v", doc.StorageKey, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type generateDocumentRequest struct {
	TemplateName string `json:"template_name"`
}

// GenerateCaseDocumentHandler renders a document template against the
// case and attaches the resulting PDF as a case document.
func GenerateCaseDocumentHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	caseRecord, err := fetchScopedCase(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req generateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.TemplateName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "template_name is required")
	}

	var tmpl models.DocumentTemplate
	err = db.DB.First(&tmpl, "name = ?", req.TemplateName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Template not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch template")
	}

	ctx := c.Request().Context()
	reader, _, err := services.Storage.Get(ctx, tmpl.StorageKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read template")
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read template")
	}

	rendered := services.RenderTemplate(string(content), services.BuildTemplateData(caseRecord))
	pdf, err := services.GeneratePDFFromTemplate(rendered, services.DefaultPDFOptions())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate PDF")
	}

	fileName := fmt.Sprintf("%s.pdf", tmpl.Name)
	key := services.GenerateGeneratedDocumentKey(caseRecord.ID, fileName)
	result, err := services.Storage.UploadReader(ctx, strings.NewReader(string(pdf)), key, "application/pdf", int64(len(pdf)))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store generated document")
	}

	doc := models.CaseDocument{
		CaseID:           caseRecord.ID,
		FileName:         result.FileName,
		FileOriginalName: fileName,
		StorageKey:       result.Key,
		FileSize:         result.FileSize,
		MimeType:         "application/pdf",
		UploadedByID:     &currentUser.ID,
	}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}
		return services.AppendCaseLog(tx, caseRecord.ID, models.CaseLogDocumentUpload, currentUser, nil, &fileName, nil)
	})
	if err != nil {
		_ = services.Storage.Delete(ctx, result.Key)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to record generated document")
	}

	return c.JSON(http.StatusCreated, doc)
}
