package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
	"github.com/Goodness-MArcel/oasis/internal/infrastructure/export"
)

// AnalyticsHandler serves the admin dashboard report.
type AnalyticsHandler struct {
	analytics ports.AnalyticsService
	now       func() time.Time
}

func NewAnalyticsHandler(analytics ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, now: time.Now}
}

// rangeParam reads ?range=N; anything unparseable falls back to the default window.
func rangeParam(c echo.Context) int {
	n, _ := strconv.Atoi(c.QueryParam("range"))
	return domain.NormalizeRange(n)
}

// Report handles GET /admin/analytics. It always answers 200.
//
// @Summary      Analytics report
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        range  query     int  false  "Window in days (7, 30 or 90)"
// @Success      200    {object}  domain.AnalyticsReport
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /admin/analytics [get]
func (h *AnalyticsHandler) Report(c echo.Context) error {
	report := h.analytics.Report(c.Request().Context(), rangeParam(c))
	return c.JSON(http.StatusOK, report)
}

// Export handles GET /admin/analytics/export and streams the report as XLSX.
//
// @Summary      Export analytics as XLSX
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        range  query  int  false  "Window in days (7, 30 or 90)"
// @Success      200
// @Failure      401    {object}  errorResponse
// @Router       /admin/analytics/export [get]
func (h *AnalyticsHandler) Export(c echo.Context) error {
	report := h.analytics.Report(c.Request().Context(), rangeParam(c))

	var buf bytes.Buffer
	if err := export.WriteAnalyticsWorkbook(&buf, report); err != nil {
		return fmt.Errorf("export analytics: %w", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.AnalyticsFilename(report.RangeDays, h.now())))
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}
