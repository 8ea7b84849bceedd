// Package contract defines the data transfer objects exchanged over the LexML
// API boundary for contract risk analysis.  These types mirror the domain
// model but are decoupled from it so that wire-format evolution never forces
// changes to the analysis core.
package contract

import (
	"time"

	"github.com/smartlex/lexml/pkg/types/common"
)

// Classification is the final verdict attached to an analyzed contract.
type Classification string

const (
	ClassificationValid Classification = "Valid"
	ClassificationRisky Classification = "Risky"
)

// Strength is the coarse enforceability grade derived from the risk score.
type Strength string

const (
	StrengthStrong   Strength = "Strong"
	StrengthModerate Strength = "Moderate"
	StrengthWeak     Strength = "Weak"
)

// AnalyzeRequest is the body of POST /api/v1/contracts/analyze.
type AnalyzeRequest struct {
	// Text is the raw contract text to analyze.  Must be non-empty after
	// whitespace trimming; the server rejects blank submissions.
	Text string `json:"text" binding:"required"`

	// Persist controls whether the resulting analysis is stored in history.
	// Defaults to true when absent.
	Persist *bool `json:"persist,omitempty"`
}

// ShouldPersist resolves the optional Persist flag.
func (r AnalyzeRequest) ShouldPersist() bool {
	return r.Persist == nil || *r.Persist
}

// TermFinding reports one matched catalog term.
type TermFinding struct {
	Count    int    `json:"count"`
	Citation string `json:"citation"`
}

// ModalFinding reports one matched modal verb with its risk weight.
type ModalFinding struct {
	Count    int     `json:"count"`
	Weight   float64 `json:"weight"`
	Citation string  `json:"citation"`
}

// MissingSection reports one required clause absent from the contract.
type MissingSection struct {
	Section  string `json:"section"`
	Citation string `json:"citation"`
}

// AnalysisReport is the full analysis result returned by the API and CLI.
type AnalysisReport struct {
	ID              common.ID               `json:"id"`
	Classification  Classification          `json:"classification"`
	ClassifierLabel Classification          `json:"classifier_label"`
	RiskScore       int                     `json:"risk_score"`
	Strength        Strength                `json:"strength"`
	AmbiguousTerms  map[string]TermFinding  `json:"ambiguous_terms"`
	WeakIndicators  map[string]TermFinding  `json:"weak_indicators"`
	ModalFindings   map[string]ModalFinding `json:"modal_findings"`
	MissingSections []MissingSection        `json:"missing_sections"`
	CitationTrail   []string                `json:"citation_trail"`
	Recommendation  string                  `json:"recommendation"`
	TextLength      int                     `json:"text_length"`
	AnalyzedAt      time.Time               `json:"analyzed_at"`
}

// HistoryEntry is one row of the recent-analysis listing.  It deliberately
// omits the contract text and findings to keep the listing lightweight.
type HistoryEntry struct {
	ID             common.ID      `json:"id"`
	AnalyzedAt     time.Time      `json:"analyzed_at"`
	Classification Classification `json:"classification"`
	RiskScore      int            `json:"risk_score"`
	Strength       Strength       `json:"strength"`
	TextLength     int            `json:"text_length"`
}

// HistoryResponse is the body of GET /api/v1/contracts/history.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
	Count   int            `json:"count"`
}
