package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/nlac-edu/gradetrack-api/internal/gradebook"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
	"github.com/nlac-edu/gradetrack-api/pkg/export"
)

// Report formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ReportFile is a rendered export ready to stream to the client.
type ReportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ReportService renders student report cards.
type ReportService struct {
	grades *GradeService
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(grades *GradeService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		grades: grades,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// StudentReportCard renders the student's gradebook as CSV or PDF.
func (s *ReportService) StudentReportCard(ctx context.Context, studentID int64, format string) (*ReportFile, error) {
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	summary, err := s.grades.StudentSummary(ctx, studentID, gradebook.Filter{})
	if err != nil {
		return nil, err
	}

	data := reportDataset(summary)
	base := fmt.Sprintf("report-card-%s", summary.Student.StudentIDNum)

	switch format {
	case FormatPDF:
		content, err := s.pdf.Render(data, fmt.Sprintf("Report Card - %s", summary.Student.Name))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ReportFile{Content: content, ContentType: "application/pdf", Filename: base + ".pdf"}, nil
	default:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ReportFile{Content: content, ContentType: "text/csv", Filename: base + ".csv"}, nil
	}
}

// reportDataset flattens the summary into one row per assessment plus an
// average row per course and a closing overall row.
func reportDataset(summary *StudentSummary) export.Dataset {
	headers := []string{"Course", "Assessment", "Category", "Month", "Score", "HPS", "Percentage", "Letter"}
	rows := make([]map[string]string, 0)

	for _, course := range summary.Courses {
		for _, row := range course.Rows {
			record := map[string]string{
				"Course":     course.Code,
				"Assessment": row.Title,
				"Category":   string(row.Category),
				"Month":      row.Month,
				"HPS":        strconv.Itoa(row.HPS),
			}
			if row.Score != nil {
				record["Score"] = strconv.FormatFloat(*row.Score, 'f', -1, 64)
			}
			if row.Percentage != nil {
				record["Percentage"] = strconv.Itoa(*row.Percentage) + "%"
				record["Letter"] = row.LetterGrade
			}
			rows = append(rows, record)
		}

		average := map[string]string{
			"Course":     course.Code,
			"Assessment": "Course Average",
		}
		if course.Average != nil {
			average["Percentage"] = strconv.Itoa(*course.Average) + "%"
			average["Letter"] = course.LetterGrade
		}
		rows = append(rows, average)
	}

	overall := map[string]string{"Assessment": "Overall Average"}
	if summary.OverallAverage != nil {
		overall["Percentage"] = strconv.Itoa(*summary.OverallAverage) + "%"
		overall["Letter"] = summary.OverallLetter
	}
	rows = append(rows, overall)

	return export.Dataset{Headers: headers, Rows: rows}
}
