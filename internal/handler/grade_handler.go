package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/service"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
	"github.com/nlac-edu/gradetrack-api/pkg/response"
)

// GradeHandler exposes grade endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// List godoc
// @Summary List grades
// @Tags Grades
// @Produce json
// @Param studentId query int false "Filter by student"
// @Param assessmentId query int false "Filter by assessment"
// @Param courseId query int false "Filter by course"
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	var filter models.GradeFilter
	if v, err := strconv.ParseInt(c.Query("studentId"), 10, 64); err == nil {
		filter.StudentID = v
	}
	if v, err := strconv.ParseInt(c.Query("assessmentId"), 10, 64); err == nil {
		filter.AssessmentID = v
	}
	if v, err := strconv.ParseInt(c.Query("courseId"), 10, 64); err == nil {
		filter.CourseID = v
	}
	grades, err := h.grades.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades)
}

// Upsert godoc
// @Summary Record or clear a score for a student on an assessment
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.UpsertGradeRequest true "Grade payload; null score marks ungraded"
// @Success 200 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Upsert(c *gin.Context) {
	var req service.UpsertGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	grade, err := h.grades.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade)
}
