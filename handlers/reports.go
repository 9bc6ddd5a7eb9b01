package handlers

import (
	"fmt"
	"net/http"
	"time"

	"legal_connect_go/db"
	"legal_connect_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportCasesReportHandler streams an xlsx export of cases for admins,
// optionally filtered by status.
func ExportCasesReportHandler(c echo.Context) error {
	buf, err := services.ExportCasesReport(db.DB, c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	filename := fmt.Sprintf("cases-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
