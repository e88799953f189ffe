package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/productdesk/internal/report"
	"github.com/talkincode/productdesk/internal/webserver"
)

func registerReportRoutes() {
	webserver.ApiGET("/products/export", exportProducts)
	webserver.ApiGET("/stats", productStats)
}

// exportProducts downloads the current filtered view.
func exportProducts(c echo.Context) error {
	format := strings.ToLower(c.QueryParam("format"))
	if format == "" {
		format = report.FormatCSV
	}
	if format != report.FormatCSV && format != report.FormatXLSX {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unsupported export format", format)
	}

	filename := fmt.Sprintf("products-%s.%s", time.Now().Format("20060102150405"), format)
	c.Response().Header().Set(echo.HeaderContentType, report.ContentType(format))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)
	return report.Write(c.Response(), format, GetController(c).View())
}

func productStats(c echo.Context) error {
	summary, err := report.Summarize(GetController(c).Merged())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute statistics", err.Error())
	}
	return ok(c, summary)
}
