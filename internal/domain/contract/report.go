package contract

import "time"

// TermFinding is one matched term as exposed on the report.
type TermFinding struct {
	Count    int    `json:"count"`
	Citation string `json:"citation"`
}

// ModalFinding is one matched modal verb as exposed on the report.
type ModalFinding struct {
	Count    int     `json:"count"`
	Weight   float64 `json:"weight"`
	Citation string  `json:"citation"`
}

// Report is the complete result of one contract analysis.  It is built fresh
// per analysis, fully populated before being returned, and never mutated
// afterwards.  The maps are keyed by term/verb; MissingSections and
// CitationTrail keep their detection order.
type Report struct {
	SourceText      string
	ClassifierLabel Label
	Classification  Label
	RiskScore       int
	Strength        Strength
	AmbiguousTerms  map[string]TermFinding
	WeakIndicators  map[string]TermFinding
	ModalFindings   map[string]ModalFinding
	MissingSections []SectionGap
	CitationTrail   []string
	AnalyzedAt      time.Time
}

// buildReport assembles a Report from matcher output and the aggregated
// verdict.  No scoring happens here.
func buildReport(text string, classifierLabel Label, ambiguous, weak []TermMatch, modals []ModalMatch, gaps []SectionGap, v Verdict) *Report {
	r := &Report{
		SourceText:      text,
		ClassifierLabel: classifierLabel,
		Classification:  v.Classification,
		RiskScore:       v.RiskScore,
		Strength:        v.Strength,
		AmbiguousTerms:  make(map[string]TermFinding, len(ambiguous)),
		WeakIndicators:  make(map[string]TermFinding, len(weak)),
		ModalFindings:   make(map[string]ModalFinding, len(modals)),
		MissingSections: gaps,
		CitationTrail:   v.CitationTrail,
		AnalyzedAt:      time.Now().UTC(),
	}
	for _, m := range ambiguous {
		r.AmbiguousTerms[m.Term] = TermFinding{Count: m.Count, Citation: m.Citation}
	}
	for _, m := range weak {
		r.WeakIndicators[m.Term] = TermFinding{Count: m.Count, Citation: m.Citation}
	}
	for _, m := range modals {
		r.ModalFindings[m.Verb] = ModalFinding{Count: m.Count, Weight: m.Weight, Citation: m.Citation}
	}
	if r.MissingSections == nil {
		r.MissingSections = []SectionGap{}
	}
	return r
}

// Recommendation derives the coarse advice tier from the verdict.
func (r *Report) Recommendation() string {
	switch {
	case r.Classification == LabelRisky:
		return "High risk: legal review strongly recommended before signing."
	case r.Strength == StrengthModerate:
		return "Moderate risk: revise flagged clauses and add missing sections."
	default:
		return "Low risk: contract language is largely enforceable as written."
	}
}
