package contract

// Analyzer runs the rule-based analysis pipeline over a single catalog.  The
// classifier verdict is an input: calling the external classifier, with its
// timeout and degradation policy, belongs to the application layer so that
// this package stays pure.
type Analyzer struct {
	catalog *Catalog
}

// NewAnalyzer builds an Analyzer over cat, which must be valid.
func NewAnalyzer(cat *Catalog) (*Analyzer, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{catalog: cat}, nil
}

// Catalog returns the catalog the analyzer was built with.
func (a *Analyzer) Catalog() *Catalog {
	return a.catalog
}

// Analyze scans text, aggregates the findings with the supplied classifier
// label, and returns a fully populated report.  It never fails: empty text
// simply has no matches and every required section missing.
func (a *Analyzer) Analyze(text string, classifierLabel Label) *Report {
	lower := Normalize(text)

	ambiguous := a.catalog.MatchAmbiguous(lower)
	weak := a.catalog.MatchWeak(lower)
	modals := a.catalog.MatchModals(lower)
	gaps := a.catalog.FindMissingSections(lower)

	verdict := a.catalog.Aggregate(ambiguous, weak, modals, gaps, classifierLabel)

	return buildReport(text, classifierLabel, ambiguous, weak, modals, gaps, verdict)
}
