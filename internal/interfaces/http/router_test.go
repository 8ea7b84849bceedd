package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlex/lexml/internal/application/assessment"
	"github.com/smartlex/lexml/internal/domain/contract"
	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
	prommetrics "github.com/smartlex/lexml/internal/infrastructure/monitoring/prometheus"
	"github.com/smartlex/lexml/internal/interfaces/http/handlers"
	"github.com/smartlex/lexml/pkg/types/common"
	typescontract "github.com/smartlex/lexml/pkg/types/contract"
)

type stubRepo struct {
	history []contract.HistoryEntry
}

func (s *stubRepo) Save(context.Context, *contract.Record) error { return nil }

func (s *stubRepo) RecentHistory(_ context.Context, limit int) ([]contract.HistoryEntry, error) {
	if limit < len(s.history) {
		return s.history[:limit], nil
	}
	return s.history, nil
}

func newTestRouter(t *testing.T, repo contract.Repository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	analyzer, err := contract.NewAnalyzer(contract.DefaultCatalog())
	require.NoError(t, err)
	svc := assessment.NewService(analyzer, assessment.Options{Repository: repo}, logging.NewNopLogger())

	reg := promclient.NewRegistry()
	metrics := prommetrics.NewMetrics(reg)

	return NewRouter(RouterDeps{
		Analysis: handlers.NewAnalysisHandler(svc, logging.NewNopLogger()),
		Health: handlers.NewHealthHandler(map[string]handlers.ReadinessCheck{
			"self": func(context.Context) error { return nil },
		}),
		Metrics:  metrics,
		Gatherer: reg,
		Log:      logging.NewNopLogger(),
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, common.APIResponse) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp common.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestAnalyzeEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubRepo{})

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/contracts/analyze",
		`{"text": "This non-binding agreement may be unenforceable."}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var report typescontract.AnalysisReport
	require.NoError(t, json.Unmarshal(raw, &report))

	assert.NotEmpty(t, report.ID)
	assert.Greater(t, report.RiskScore, 0)
	assert.NotEmpty(t, report.CitationTrail)
}

func TestAnalyzeRejectsEmptyText(t *testing.T) {
	r := newTestRouter(t, &stubRepo{})

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/contracts/analyze", `{"text": "   "}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONTRACT_001", resp.Error.Code)
}

func TestAnalyzeRejectsBadJSON(t *testing.T) {
	r := newTestRouter(t, &stubRepo{})

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/contracts/analyze", `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
}

func TestHistoryEndpoint(t *testing.T) {
	repo := &stubRepo{history: []contract.HistoryEntry{
		{ID: "a", CreatedAt: time.Now(), Classification: contract.LabelRisky, RiskScore: 90, Strength: contract.StrengthWeak, TextLength: 10},
		{ID: "b", CreatedAt: time.Now(), Classification: contract.LabelValid, RiskScore: 5, Strength: contract.StrengthStrong, TextLength: 20},
	}}
	r := newTestRouter(t, repo)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/contracts/history", "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var hist typescontract.HistoryResponse
	require.NoError(t, json.Unmarshal(raw, &hist))
	assert.Equal(t, 2, hist.Count)

	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/contracts/history?limit=1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	raw, _ = json.Marshal(resp.Data)
	require.NoError(t, json.Unmarshal(raw, &hist))
	assert.Equal(t, 1, hist.Count)
}

func TestHistoryRejectsBadLimit(t *testing.T) {
	r := newTestRouter(t, &stubRepo{})

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/contracts/history?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	analyzer, err := contract.NewAnalyzer(contract.DefaultCatalog())
	require.NoError(t, err)
	svc := assessment.NewService(analyzer, assessment.Options{}, logging.NewNopLogger())

	r := NewRouter(RouterDeps{
		Analysis: handlers.NewAnalysisHandler(svc, logging.NewNopLogger()),
		Health: handlers.NewHealthHandler(map[string]handlers.ReadinessCheck{
			"database": func(context.Context) error { return assert.AnError },
		}),
		Log: logging.NewNopLogger(),
	})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lexml_")
}

func TestRequestIDPropagated(t *testing.T) {
	r := newTestRouter(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
}
