package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nlac-edu/gradetrack-api/internal/middleware"
	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/service"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	"github.com/nlac-edu/gradetrack-api/pkg/response"
)

func newTestStudentHandler(t *testing.T) *StudentHandler {
	t.Helper()
	st := store.NewMemoryStore()
	require.NoError(t, store.Restore(context.Background(), st, store.DefaultSnapshot()))
	students := service.NewStudentService(st, validator.New(), zap.NewNop())
	grades := service.NewGradeService(st, validator.New(), zap.NewNop())
	reports := service.NewReportService(grades, zap.NewNop())
	return NewStudentHandler(students, grades, reports)
}

func testContext(method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	if body != "" {
		c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, target, nil)
	}
	return c, rec
}

func TestStudentHandlerGet(t *testing.T) {
	h := newTestStudentHandler(t)

	c, rec := testContext(http.MethodGet, "/students/1", "")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Get(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2024-0001", data["studentIdNum"])
}

func TestStudentHandlerGetInvalidID(t *testing.T) {
	h := newTestStudentHandler(t)

	c, rec := testContext(http.MethodGet, "/students/abc", "")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudentHandlerCreate(t *testing.T) {
	h := newTestStudentHandler(t)

	c, rec := testContext(http.MethodPost, "/students", `{"name":"Lopez, Ana T.","program":"BSBA","year":2024}`)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "2024-0004", data["studentIdNum"])
}

func TestStudentHandlerSummaryRequiresToken(t *testing.T) {
	h := newTestStudentHandler(t)

	c, rec := testContext(http.MethodGet, "/students/1/summary", "")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Summary(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStudentHandlerSummaryStudentOwnRecordOnly(t *testing.T) {
	h := newTestStudentHandler(t)

	c, rec := testContext(http.MethodGet, "/students/1/summary", "")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Role: models.RoleStudent, StudentID: 2})
	h.Summary(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = testContext(http.MethodGet, "/students/1/summary", "")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Role: models.RoleStudent, StudentID: 1})
	h.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStudentHandlerSummaryAdminSeesAnyStudent(t *testing.T) {
	h := newTestStudentHandler(t)

	c, rec := testContext(http.MethodGet, "/students/2/summary", "")
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Role: models.RoleAdmin})
	h.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data := envelope.Data.(map[string]interface{})
	student := data["student"].(map[string]interface{})
	assert.Equal(t, "Wilson, James K.", student["name"])
}

func TestStudentHandlerReportCardAttachment(t *testing.T) {
	h := newTestStudentHandler(t)

	c, rec := testContext(http.MethodGet, "/students/1/report-card?format=csv", "")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Role: models.RoleAdmin})
	h.ReportCard(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "report-card-2024-0001.csv")
}
