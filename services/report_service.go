package services

import (
	"bytes"
	"fmt"
	"time"

	"legal_connect_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// caseReportHeaders are the column titles of the admin case export
var caseReportHeaders = []string{
	"ID", "Title", "Status", "Priority", "Owner", "Assigned lawyer",
	"Claim amount", "Deadline", "Created", "Last status change",
}

// ExportCasesReport builds an xlsx workbook of all cases, optionally
// filtered by status, for the admin analytics export.
func ExportCasesReport(db *gorm.DB, status string) (*bytes.Buffer, error) {
	query := db.Preload("Owner").Preload("AssignedTo").Order("created_at DESC")
	if status != "" {
		if !models.IsValidCaseStatus(status) {
			return nil, fmt.Errorf("report: invalid status filter %q", status)
		}
		query = query.Where("status = ?", status)
	}

	var cases []models.Case
	if err := query.Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("report: fetch cases: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Cases"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("report: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range caseReportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("report: write header: %w", err)
		}
	}

	for row, caseRecord := range cases {
		values := []interface{}{
			caseRecord.ID,
			caseRecord.Title,
			caseRecord.Status,
			caseRecord.Priority,
			caseRecord.Owner.Name,
			assignedName(&caseRecord),
			claimAmount(&caseRecord),
			formatDate(caseRecord.Deadline),
			caseRecord.CreatedAt.Format("2006-01-02 15:04"),
			formatDate(caseRecord.StatusChangedAt),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("report: write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: write workbook: %w", err)
	}
	return buf, nil
}

func assignedName(caseRecord *models.Case) string {
	if caseRecord.AssignedTo != nil {
		return caseRecord.AssignedTo.Name
	}
	return ""
}

func claimAmount(caseRecord *models.Case) interface{} {
	if caseRecord.ClaimAmount != nil {
		return *caseRecord.ClaimAmount
	}
	return ""
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
