package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlex/lexml/pkg/types/common"
	typescontract "github.com/smartlex/lexml/pkg/types/contract"
)

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/contracts/analyze":
			report := typescontract.AnalysisReport{
				ID:             "id-1",
				Classification: typescontract.ClassificationRisky,
				RiskScore:      75,
				Strength:       typescontract.StrengthWeak,
				WeakIndicators: map[string]typescontract.TermFinding{
					"unenforceable": {Count: 2, Citation: "cite"},
				},
				MissingSections: []typescontract.MissingSection{{Section: "termination", Citation: "cite"}},
				CitationTrail:   []string{"cite one", "cite two"},
				Recommendation:  "High risk: legal review strongly recommended before signing.",
				AnalyzedAt:      time.Now().UTC(),
			}
			_ = json.NewEncoder(w).Encode(common.NewSuccessResponse(report, "r1"))
		case "/api/v1/contracts/history":
			hist := typescontract.HistoryResponse{
				Entries: []typescontract.HistoryEntry{{
					ID:             "id-1",
					AnalyzedAt:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
					Classification: typescontract.ClassificationValid,
					RiskScore:      12,
					Strength:       typescontract.StrengthStrong,
					TextLength:     240,
				}},
				Count: 1,
			}
			_ = json.NewEncoder(w).Encode(common.NewSuccessResponse(hist, "r2"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeFromStdin(t *testing.T) {
	srv := newFakeServer(t)
	defer srv.Close()

	out, err := runCommand(t, "this agreement is unenforceable",
		"analyze", "-", "--server", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "Classification: Risky")
	assert.Contains(t, out, "Risk score:     75/100")
	assert.Contains(t, out, "unenforceable")
	assert.Contains(t, out, "termination")
	assert.Contains(t, out, "cite one")
}

func TestAnalyzeFromFile(t *testing.T) {
	srv := newFakeServer(t)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "contract.txt")
	require.NoError(t, os.WriteFile(path, []byte("some contract text"), 0o644))

	out, err := runCommand(t, "", "analyze", path, "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Strength:       Weak")
}

func TestAnalyzeJSONOutput(t *testing.T) {
	srv := newFakeServer(t)
	defer srv.Close()

	out, err := runCommand(t, "text", "analyze", "--json", "--server", srv.URL)
	require.NoError(t, err)

	var report typescontract.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 75, report.RiskScore)
}

func TestAnalyzeRejectsEmptyInput(t *testing.T) {
	_, err := runCommand(t, "   \n", "analyze", "-", "--server", "http://localhost:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, err := runCommand(t, "", "analyze", filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestHistoryTable(t *testing.T) {
	srv := newFakeServer(t)
	defer srv.Close()

	out, err := runCommand(t, "", "history", "-n", "5", "--server", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "CLASSIFICATION")
	assert.Contains(t, out, "id-1")
	assert.Contains(t, out, "2024-03-01 10:00:00")
	assert.Contains(t, out, "Strong")
}
