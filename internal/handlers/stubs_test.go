package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"oa_backend/internal/models"
	"oa_backend/internal/repositories"
	"oa_backend/internal/services"
	"oa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type stubAttendanceService struct {
	checkIn   func(services.CheckInRequest) (*services.CheckInResult, error)
	list      func(models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	deleteErr error
}

func (s *stubAttendanceService) CheckInOut(req services.CheckInRequest) (*services.CheckInResult, error) {
	return s.checkIn(req)
}

func (s *stubAttendanceService) ListRecords(f models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	return s.list(f)
}

func (s *stubAttendanceService) CreateRecord(services.AttendanceRecordRequest) (*models.AttendanceRecord, error) {
	return &models.AttendanceRecord{ID: 1}, nil
}

func (s *stubAttendanceService) UpdateRecord(int64, services.UpdateAttendanceRecordRequest) error {
	return nil
}

func (s *stubAttendanceService) DeleteRecord(int64) error { return s.deleteErr }

type stubCostService struct {
	deleteCenterErr error
	createdAlloc    *services.CostAllocationRequest
}

func (s *stubCostService) ListCenters(repositories.CostCenterFilter) ([]models.CostCenter, int, error) {
	return []models.CostCenter{}, 0, nil
}

func (s *stubCostService) CreateCenter(services.CostCenterRequest) (*models.CostCenter, error) {
	return &models.CostCenter{ID: 1}, nil
}

func (s *stubCostService) UpdateCenter(id int64, _ services.CostCenterRequest) (*models.CostCenter, error) {
	return &models.CostCenter{ID: id}, nil
}

func (s *stubCostService) DeleteCenter(int64) error { return s.deleteCenterErr }

func (s *stubCostService) ListAllocations(repositories.CostAllocationFilter) ([]models.CostAllocation, int, error) {
	return []models.CostAllocation{}, 0, nil
}

func (s *stubCostService) CreateAllocation(req services.CostAllocationRequest) (*models.CostAllocation, error) {
	s.createdAlloc = &req
	return &models.CostAllocation{ID: 9}, nil
}

func (s *stubCostService) UpdateAllocation(id int64, _ services.CostAllocationRequest) (*models.CostAllocation, error) {
	return &models.CostAllocation{ID: id}, nil
}

func (s *stubCostService) DeleteAllocation(int64) error { return nil }

type stubReportService struct {
	attendance *models.AttendanceReport
	err        error
	lastQuery  services.AttendanceReportQuery
}

func (s *stubReportService) AttendanceReport(q services.AttendanceReportQuery) (*models.AttendanceReport, error) {
	s.lastQuery = q
	return s.attendance, s.err
}

func (s *stubReportService) SalaryReport(services.SalaryReportQuery) (*models.SalaryReport, error) {
	return &models.SalaryReport{Data: []models.SalarySummaryItem{}}, nil
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.RegisterValidators()
	return gin.New()
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// errorCode extracts error.code from an APIError body.
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error utils.APIError `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body %q: %v", w.Body.String(), err)
	}
	return body.Error.Code
}
