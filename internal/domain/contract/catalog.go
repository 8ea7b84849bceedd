// Package contract implements the rule-based contract risk analysis core:
// the reference catalog of risky language, the pattern matchers, the risk
// aggregator, and the analysis report model.  Everything in this package is
// pure and deterministic; external collaborators (classifier, storage) are
// reached through interfaces defined here and injected by the application
// layer.
package contract

import (
	"fmt"
	"regexp"

	"github.com/smartlex/lexml/pkg/errors"
)

// Scoring constants.  The asymmetric modal weights (permissive "may" scoring
// far above mandatory "must") come from the published weight table the
// catalog cites and are preserved as-is.
const (
	// AmbiguousPoints is added per occurrence of an ambiguous term.
	AmbiguousPoints = 5

	// WeakIndicatorPoints is added per occurrence of a weak/fake indicator.
	WeakIndicatorPoints = 10

	// ModalScale multiplies the per-verb weight into score points per hit.
	ModalScale = 10

	// MissingSectionPenalty is added once per absent required section,
	// regardless of document length.
	MissingSectionPenalty = 6

	// MaxScore caps the final risk score.
	MaxScore = 100

	// ModerateFloor and HighFloor delimit the strength buckets: a score of
	// exactly ModerateFloor is still Strong, above HighFloor is Risky.
	ModerateFloor = 30
	HighFloor     = 60
)

// Label is a contract verdict.
type Label string

const (
	LabelValid Label = "Valid"
	LabelRisky Label = "Risky"
)

// Strength is the coarse enforceability grade derived from the risk score.
type Strength string

const (
	StrengthStrong   Strength = "Strong"
	StrengthModerate Strength = "Moderate"
	StrengthWeak     Strength = "Weak"
)

// TermPattern is one catalog entry: a named phrase, its whole-word matching
// pattern, and the research citation attached to every match.
type TermPattern struct {
	Term     string
	Pattern  *regexp.Regexp
	Citation string
}

// ModalVerb is a catalog entry for a modal verb with its risk weight.
type ModalVerb struct {
	Verb     string
	Weight   float64
	Pattern  *regexp.Regexp
	Citation string
}

// RequiredSection is a clause whose absence is penalised.
type RequiredSection struct {
	Section  string
	Pattern  *regexp.Regexp
	Citation string
}

// Thresholds carries the per-bucket citations for the scoring thresholds.
type Thresholds struct {
	Low      string
	Moderate string
	High     string
}

// Catalog is the immutable reference catalog driving the rule-based
// analysis.  Entries are held in ordered slices because the citation trail
// must list findings in catalog order; construct once and share freely, the
// matchers never mutate it.
type Catalog struct {
	AmbiguousSource string
	Ambiguous       []TermPattern

	WeakSource string
	Weak       []TermPattern

	ModalSource string
	Modals      []ModalVerb

	SectionsSource string
	Sections       []RequiredSection

	ThresholdsSource string
	Thresholds       Thresholds
}

// Source citations for the default catalog.
const (
	sourceAmbiguous  = "Automated Identification of Vague Terms in Contracts (ACL 2021)"
	sourceWeak       = "Detection of Non-Binding Clauses in Contracts (IEEE Access 2020)"
	sourceModals     = "Stanford CodeX Legal Tech Research"
	sourceSections   = "ABA Model Rules (American Bar Association)"
	sourceThresholds = "Quantifying Legal Risk (Harvard Law School, 2020)"
)

// DefaultCatalog returns the built-in reference catalog.  Term order is part
// of the contract: the citation trail lists findings in the order entries
// appear here.
func DefaultCatalog() *Catalog {
	return &Catalog{
		AmbiguousSource: sourceAmbiguous,
		Ambiguous: []TermPattern{
			{
				Term:     "reasonable efforts",
				Pattern:  regexp.MustCompile(`\breasonable efforts?\b`),
				Citation: `Courts often dispute what constitutes "reasonable efforts" (ACL 2021)`,
			},
			{
				Term:     "material adverse",
				Pattern:  regexp.MustCompile(`\bmaterial adverse\b`),
				Citation: `"Material adverse" clauses are subject to interpretation (ACL 2021)`,
			},
			{
				Term:     "sole discretion",
				Pattern:  regexp.MustCompile(`\bsole discretion\b`),
				Citation: `Unlimited "sole discretion" clauses create enforcement risks (ACL 2021)`,
			},
		},

		WeakSource: sourceWeak,
		Weak: []TermPattern{
			{
				Term:     "non-binding",
				Pattern:  regexp.MustCompile(`\bnon-?binding\b`),
				Citation: `"Non-binding" clauses may render agreements unenforceable (IEEE 2020)`,
			},
			{
				Term:     "unenforceable",
				Pattern:  regexp.MustCompile(`\bunenforceable\b`),
				Citation: `Direct "unenforceable" declarations void contractual obligations (IEEE 2020)`,
			},
			{
				Term:     "without liability",
				Pattern:  regexp.MustCompile(`\bwithout liability\b`),
				Citation: `"Without liability" clauses remove legal accountability (IEEE 2020)`,
			},
		},

		ModalSource: sourceModals,
		Modals: []ModalVerb{
			{
				Verb:     "shall",
				Weight:   0.2,
				Pattern:  regexp.MustCompile(`\bshall\b`),
				Citation: "High obligation (20% risk weight - Stanford CodeX)",
			},
			{
				Verb:     "must",
				Weight:   0.1,
				Pattern:  regexp.MustCompile(`\bmust\b`),
				Citation: "Strong requirement (10% risk weight - Stanford CodeX)",
			},
			{
				Verb:     "may",
				Weight:   0.5,
				Pattern:  regexp.MustCompile(`\bmay\b`),
				Citation: "Permissive language (50% risk weight - Stanford CodeX)",
			},
			{
				Verb:     "should",
				Weight:   0.4,
				Pattern:  regexp.MustCompile(`\bshould\b`),
				Citation: "Recommended but not required (40% risk weight - Stanford CodeX)",
			},
		},

		SectionsSource: sourceSections,
		Sections: []RequiredSection{
			{
				Section:  "confidentiality",
				Pattern:  regexp.MustCompile(`\bconfidentiality\b`),
				Citation: "Missing confidentiality clause violates ABA Model Rules §2.3",
			},
			{
				Section:  "termination",
				Pattern:  regexp.MustCompile(`\btermination\b`),
				Citation: "ABA requires clear termination conditions (§4.1)",
			},
			{
				Section:  "governing law",
				Pattern:  regexp.MustCompile(`\bgoverning law\b`),
				Citation: "Governing law section required by ABA Model Rules §7.2",
			},
			{
				Section:  "indemnification",
				Pattern:  regexp.MustCompile(`\bindemnification\b`),
				Citation: "Standard indemnification expected in contracts (ABA §5.4)",
			},
			{
				Section:  "limitation of liability",
				Pattern:  regexp.MustCompile(`\blimitation of liability\b`),
				Citation: "ABA recommends clear liability limits (§6.2)",
			},
		},

		ThresholdsSource: sourceThresholds,
		Thresholds: Thresholds{
			Low:      "Under 30: Low risk (Harvard 2020)",
			Moderate: "30-60: Moderate dispute risk (Harvard 2020)",
			High:     "Over 60: High litigation probability (Harvard 2020)",
		},
	}
}

// Validate checks that the catalog is internally consistent: every entry has
// a term, a pattern, and a citation, and every modal weight is in (0, 1].
func (c *Catalog) Validate() error {
	if c == nil {
		return errors.New(errors.ErrCodeCatalogInvalid, "catalog is nil")
	}
	for i, tp := range c.Ambiguous {
		if err := validateTerm("ambiguous", i, tp); err != nil {
			return err
		}
	}
	for i, tp := range c.Weak {
		if err := validateTerm("weak", i, tp); err != nil {
			return err
		}
	}
	for i, m := range c.Modals {
		if m.Verb == "" || m.Pattern == nil || m.Citation == "" {
			return errors.Newf(errors.ErrCodeCatalogInvalid, "modal entry %d incomplete", i)
		}
		if m.Weight <= 0 || m.Weight > 1 {
			return errors.Newf(errors.ErrCodeCatalogInvalid,
				"modal %q weight %v out of range (0,1]", m.Verb, m.Weight)
		}
	}
	for i, s := range c.Sections {
		if s.Section == "" || s.Pattern == nil || s.Citation == "" {
			return errors.Newf(errors.ErrCodeCatalogInvalid, "section entry %d incomplete", i)
		}
	}
	if c.Thresholds.Low == "" || c.Thresholds.Moderate == "" || c.Thresholds.High == "" {
		return errors.New(errors.ErrCodeCatalogInvalid, "threshold citations incomplete")
	}
	return nil
}

func validateTerm(kind string, i int, tp TermPattern) error {
	if tp.Term == "" || tp.Pattern == nil || tp.Citation == "" {
		return errors.Newf(errors.ErrCodeCatalogInvalid, "%s entry %d incomplete", kind, i)
	}
	return nil
}

// CatalogSpec is the serialisable form of a Catalog, loadable from YAML when
// a deployment needs to override the built-in term sets.
type CatalogSpec struct {
	AmbiguousSource  string         `mapstructure:"ambiguous_source" yaml:"ambiguous_source"`
	Ambiguous        []TermSpec     `mapstructure:"ambiguous" yaml:"ambiguous"`
	WeakSource       string         `mapstructure:"weak_source" yaml:"weak_source"`
	Weak             []TermSpec     `mapstructure:"weak" yaml:"weak"`
	ModalSource      string         `mapstructure:"modal_source" yaml:"modal_source"`
	Modals           []ModalSpec    `mapstructure:"modals" yaml:"modals"`
	SectionsSource   string         `mapstructure:"sections_source" yaml:"sections_source"`
	Sections         []TermSpec     `mapstructure:"sections" yaml:"sections"`
	ThresholdsSource string         `mapstructure:"thresholds_source" yaml:"thresholds_source"`
	Thresholds       ThresholdsSpec `mapstructure:"thresholds" yaml:"thresholds"`
}

// TermSpec is one serialised term entry.  Pattern is a regular expression;
// when empty, a whole-word pattern is derived from the term itself.
type TermSpec struct {
	Term     string `mapstructure:"term" yaml:"term"`
	Pattern  string `mapstructure:"pattern" yaml:"pattern"`
	Citation string `mapstructure:"citation" yaml:"citation"`
}

// ModalSpec is one serialised modal verb entry.
type ModalSpec struct {
	Verb     string  `mapstructure:"verb" yaml:"verb"`
	Weight   float64 `mapstructure:"weight" yaml:"weight"`
	Citation string  `mapstructure:"citation" yaml:"citation"`
}

// ThresholdsSpec is the serialised threshold citation set.
type ThresholdsSpec struct {
	Low      string `mapstructure:"low" yaml:"low"`
	Moderate string `mapstructure:"moderate" yaml:"moderate"`
	High     string `mapstructure:"high" yaml:"high"`
}

// NewCatalog compiles a CatalogSpec into a validated Catalog.
func NewCatalog(spec CatalogSpec) (*Catalog, error) {
	cat := &Catalog{
		AmbiguousSource:  spec.AmbiguousSource,
		WeakSource:       spec.WeakSource,
		ModalSource:      spec.ModalSource,
		SectionsSource:   spec.SectionsSource,
		ThresholdsSource: spec.ThresholdsSource,
		Thresholds: Thresholds{
			Low:      spec.Thresholds.Low,
			Moderate: spec.Thresholds.Moderate,
			High:     spec.Thresholds.High,
		},
	}

	var err error
	if cat.Ambiguous, err = compileTerms(spec.Ambiguous); err != nil {
		return nil, err
	}
	if cat.Weak, err = compileTerms(spec.Weak); err != nil {
		return nil, err
	}
	for _, m := range spec.Modals {
		p, err := compilePattern(m.Verb, "")
		if err != nil {
			return nil, err
		}
		cat.Modals = append(cat.Modals, ModalVerb{
			Verb: m.Verb, Weight: m.Weight, Pattern: p, Citation: m.Citation,
		})
	}
	for _, s := range spec.Sections {
		p, err := compilePattern(s.Term, s.Pattern)
		if err != nil {
			return nil, err
		}
		cat.Sections = append(cat.Sections, RequiredSection{
			Section: s.Term, Pattern: p, Citation: s.Citation,
		})
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func compileTerms(specs []TermSpec) ([]TermPattern, error) {
	out := make([]TermPattern, 0, len(specs))
	for _, ts := range specs {
		p, err := compilePattern(ts.Term, ts.Pattern)
		if err != nil {
			return nil, err
		}
		out = append(out, TermPattern{Term: ts.Term, Pattern: p, Citation: ts.Citation})
	}
	return out, nil
}

// compilePattern compiles an explicit pattern, or derives a whole-word
// pattern from the literal term when none is given.
func compilePattern(term, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = fmt.Sprintf(`\b%s\b`, regexp.QuoteMeta(term))
	}
	p, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogInvalid,
			fmt.Sprintf("invalid pattern for term %q", term))
	}
	return p, nil
}
