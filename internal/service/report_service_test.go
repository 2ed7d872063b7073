package service

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
)

func TestReportServiceCSVReportCard(t *testing.T) {
	grades := NewGradeService(seededStore(t), validator.New(), zap.NewNop())
	svc := NewReportService(grades, zap.NewNop())

	file, err := svc.StudentReportCard(context.Background(), 1, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "report-card-2024-0001.csv", file.Filename)

	content := string(file.Content)
	assert.True(t, strings.HasPrefix(content, "Course,Assessment,Category,Month,Score,HPS,Percentage,Letter"))
	assert.Contains(t, content, "MATH101,Prelim Exam,Written Exam,February,95,100,95%,A")
	assert.Contains(t, content, "Course Average")
	assert.Contains(t, content, "Overall Average")
}

func TestReportServicePDFReportCard(t *testing.T) {
	grades := NewGradeService(seededStore(t), validator.New(), zap.NewNop())
	svc := NewReportService(grades, zap.NewNop())

	file, err := svc.StudentReportCard(context.Background(), 1, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestReportServiceRejectsUnknownFormat(t *testing.T) {
	grades := NewGradeService(seededStore(t), validator.New(), zap.NewNop())
	svc := NewReportService(grades, zap.NewNop())

	_, err := svc.StudentReportCard(context.Background(), 1, "xlsx")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))

	_, err = svc.StudentReportCard(context.Background(), 999, FormatCSV)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound.Code))
}
