package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlex/lexml/pkg/errors"
	"github.com/smartlex/lexml/pkg/types/common"
	typescontract "github.com/smartlex/lexml/pkg/types/contract"
)

func TestNewRequiresURL(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestAnalyzeRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/contracts/analyze", r.URL.Path)

		var req typescontract.AnalyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "some contract", req.Text)
		require.NotNil(t, req.Persist)
		assert.False(t, *req.Persist)

		report := typescontract.AnalysisReport{ID: "id-1", RiskScore: 42, Classification: typescontract.ClassificationValid}
		_ = json.NewEncoder(w).Encode(common.NewSuccessResponse(report, "req-1"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	report, err := c.Analyze(context.Background(), "some contract", false)
	require.NoError(t, err)
	assert.Equal(t, 42, report.RiskScore)
	assert.Equal(t, common.ID("id-1"), report.ID)
}

func TestHistoryPassesLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		hist := typescontract.HistoryResponse{Entries: []typescontract.HistoryEntry{{ID: "a"}}, Count: 1}
		_ = json.NewEncoder(w).Encode(common.NewSuccessResponse(hist, "req-2"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	hist, err := c.History(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, hist.Count)
}

func TestErrorEnvelopeSurfacesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(common.NewErrorResponse("CONTRACT_001", "contract text cannot be empty", "", "req-3"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), "", true)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeContractEmptyText))
}

func TestHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	assert.NoError(t, c.Healthy(context.Background()))
}
