package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/prodtrack/backend-go/internal/config"
	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/export"
	"github.com/andresuchdata/prodtrack/backend-go/internal/repository"
	"github.com/andresuchdata/prodtrack/backend-go/internal/service"
)

type memoryRecords struct {
	records  []domain.RawRecord
	linesErr error
}

func (m *memoryRecords) ListRecords(ctx context.Context, start, end, line string) ([]domain.RawRecord, error) {
	return m.records, nil
}

func (m *memoryRecords) ListLines(ctx context.Context) ([]string, error) {
	if m.linesErr != nil {
		return nil, m.linesErr
	}
	return []string{"L1"}, nil
}

func (m *memoryRecords) UpsertRecords(ctx context.Context, records []domain.RawRecord) (int, error) {
	m.records = append(m.records, records...)
	return len(records), nil
}

type memoryPlans struct {
	plans    map[string]domain.MonthlyPlan
	workDays domain.WorkDays
}

func (m *memoryPlans) ListPlans(ctx context.Context, area string) ([]domain.MonthlyPlan, error) {
	var out []domain.MonthlyPlan
	for _, p := range m.plans {
		if area == "" || p.Area == area {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryPlans) UpsertPlan(ctx context.Context, plan domain.MonthlyPlan) error {
	m.plans[plan.Key()] = plan
	return nil
}

func (m *memoryPlans) DeletePlan(ctx context.Context, area, itemCode string) error {
	key := domain.PlanKey(area, itemCode)
	if _, ok := m.plans[key]; !ok {
		return repository.ErrNotFound
	}
	delete(m.plans, key)
	return nil
}

func (m *memoryPlans) GetWorkDays(ctx context.Context) (domain.WorkDays, error) {
	return m.workDays, nil
}

func (m *memoryPlans) SaveWorkDays(ctx context.Context, workDays domain.WorkDays) error {
	m.workDays = workDays
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memoryRecords, *memoryPlans) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	records := &memoryRecords{records: []domain.RawRecord{
		{Area: "313", Line: "L1", Item1: "A1", Item2: "Shirt", Group: "G1", Date: "20250601", PlanQty: 100, ActualQty: 120},
		{Area: "313", Line: "L1", Item1: "A1", Item2: "Shirt", Group: "G1", Date: "20250602", PlanQty: 100, ActualQty: 90},
	}}
	plans := &memoryPlans{plans: map[string]domain.MonthlyPlan{}}

	router := NewRouter(&Services{
		Dashboard: service.NewDashboardService(records, plans, nil, config.ProductionConfig{ActualDivisor: 1000}),
		Plans:     service.NewPlanService(plans),
		Ingest:    service.NewIngestService(records, plans, nil),
	}, nil)
	return router, records, plans
}

func perform(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := perform(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestDashboardView(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := perform(router, http.MethodGet, "/api/v1/dashboard/view?start_date=2025-06-01&end_date=2025-06-02&area=313", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view domain.DashboardView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Sewing", view.Area)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 200.0, view.Overall.Plan)
	assert.Equal(t, 210.0, view.Overall.Act)
	assert.Equal(t, []string{"All", "Shirt"}, view.MachineGroups)
}

func TestDashboardBadRequests(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, target := range []string{
		"/api/v1/dashboard?month=abc",
		"/api/v1/dashboard?month=202506&week=x",
		"/api/v1/dashboard?month=202506&week=9",
		"/api/v1/dashboard?month=202506&mode=bogus",
		"/api/v1/dashboard?start_date=2025-06-03&end_date=2025-06-01",
		"/api/v1/records?start_date=2025-06-03",
	} {
		w := perform(router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestDashboardExport(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := perform(router, http.MethodGet, "/api/v1/dashboard/export?start_date=2025-06-01&end_date=2025-06-02", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "production_20250601_20250602_raw.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestLinesFailure(t *testing.T) {
	router, records, _ := newTestRouter(t)
	records.linesErr = errors.New("connection refused")

	w := perform(router, http.MethodGet, "/api/v1/lines", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestPlanLifecycle(t *testing.T) {
	router, _, plans := newTestRouter(t)

	w := perform(router, http.MethodPut, "/api/v1/plans", `{"itemCode":"A1","item1":"Shirt","plans":{"202506":2000}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, http.MethodPut, "/api/v1/plans", `{"line1":" 313 ","itemCode":"A1","item1":"Shirt","plans":{"202506":2000}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, plans.plans, 1)

	w = perform(router, http.MethodGet, "/api/v1/plans?area=313", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []domain.MonthlyPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "313", listed[0].Area)

	w = perform(router, http.MethodDelete, "/api/v1/plans/313/A1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = perform(router, http.MethodDelete, "/api/v1/plans/313/A1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkDays(t *testing.T) {
	router, _, plans := newTestRouter(t)

	w := perform(router, http.MethodGet, "/api/v1/workdays", "")
	require.Equal(t, http.StatusOK, w.Code)
	var workDays domain.WorkDays
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &workDays))
	assert.Equal(t, domain.DefaultWorkDays(), workDays)

	w = perform(router, http.MethodPut, "/api/v1/workdays", `{"202506":40}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, http.MethodPut, "/api/v1/workdays", `{"202506":21}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 21, plans.workDays["202506"])
}

func TestImportRecords(t *testing.T) {
	router, records, _ := newTestRouter(t)

	w := perform(router, http.MethodPost, "/api/v1/records/import", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, http.MethodPost, "/api/v1/records/import", `[{"area":"111","line":"W1","item1":"B","date":"20250605","planQty":1,"actualQty":1}]`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":1,"stored":1}`, w.Body.String())
	assert.Len(t, records.records, 3)
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, allowAll := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " "})
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, origins)
	assert.False(t, allowAll)

	_, allowAll = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, allowAll)
}
