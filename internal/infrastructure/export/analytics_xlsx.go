package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

const (
	SheetKPIs    = "KPIs"
	SheetTraffic = "Traffic"
	SheetTop     = "Top Courses"
	SheetRecent  = "Recent Enrollments"

	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// AnalyticsFilename names the download for a report generated at now.
func AnalyticsFilename(rangeDays int, now time.Time) string {
	return fmt.Sprintf("oasis-analytics-%dd-%s.xlsx", rangeDays, now.UTC().Format("20060102"))
}

// WriteAnalyticsWorkbook renders report as an XLSX workbook into w.
func WriteAnalyticsWorkbook(w io.Writer, report *domain.AnalyticsReport) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E7EEF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("workbook style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetKPIs); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	for _, name := range []string{SheetTraffic, SheetTop, SheetRecent} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("workbook: add sheet %s: %w", name, err)
		}
	}

	kpis := [][]any{
		{"Metric", "Value"},
		{"Range (days)", report.RangeDays},
		{"Total users", report.TotalUsers},
		{"Active courses", report.ActiveCourses},
		{"Total enrollments", report.TotalEnrollments},
		{"Average completion rate (%)", report.AvgCompletionRate},
	}

	traffic := [][]any{{"Date", "Signups", "Enrollments"}}
	for i, label := range report.TrafficLabels {
		traffic = append(traffic, []any{label, at(report.TrafficSignups, i), at(report.TrafficEnrollments, i)})
	}

	top := [][]any{{"Course", "Category", "Enrollments", "Completion rate (%)", "Status"}}
	for _, c := range report.TopCourses {
		top = append(top, []any{c.Title, c.Category, c.TotalEnrollments, c.CompletionRate, c.StatusLabel})
	}

	recent := [][]any{{"Date", "Username", "Email", "Course", "Status"}}
	for _, e := range report.RecentEnrollments {
		recent = append(recent, []any{e.CreatedAt.UTC().Format(time.RFC3339), e.Username, e.Email, e.CourseTitle, string(e.Status)})
	}

	for sheet, rows := range map[string][][]any{
		SheetKPIs:    kpis,
		SheetTraffic: traffic,
		SheetTop:     top,
		SheetRecent:  recent,
	} {
		if err := writeRows(f, sheet, rows, header); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("workbook write: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("workbook: %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("workbook: %s header style: %w", sheet, err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(rows[0]))
	return f.SetColWidth(sheet, "A", lastCol, 22)
}

func at(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}
