package contract

import "strings"

// TermMatch reports the occurrences of one catalog term.
type TermMatch struct {
	Term     string
	Count    int
	Citation string
}

// ModalMatch reports the occurrences of one modal verb with its weight.
type ModalMatch struct {
	Verb     string
	Count    int
	Weight   float64
	Citation string
}

// SectionGap reports a required section absent from the text.
type SectionGap struct {
	Section  string
	Citation string
}

// Normalize lowercases the text for matching.  All patterns in the catalog
// are written against lowercased input.
func Normalize(text string) string {
	return strings.ToLower(text)
}

// MatchAmbiguous scans lowercased text for ambiguous terms.  Results keep
// catalog order; terms with zero occurrences are omitted.
func (c *Catalog) MatchAmbiguous(lower string) []TermMatch {
	return matchTerms(c.Ambiguous, lower)
}

// MatchWeak scans lowercased text for weak/fake indicators.  Results keep
// catalog order; terms with zero occurrences are omitted.
func (c *Catalog) MatchWeak(lower string) []TermMatch {
	return matchTerms(c.Weak, lower)
}

func matchTerms(patterns []TermPattern, lower string) []TermMatch {
	var out []TermMatch
	for _, tp := range patterns {
		n := len(tp.Pattern.FindAllStringIndex(lower, -1))
		if n > 0 {
			out = append(out, TermMatch{Term: tp.Term, Count: n, Citation: tp.Citation})
		}
	}
	return out
}

// MatchModals scans lowercased text for modal verbs.  Results keep catalog
// order; verbs with zero occurrences are omitted.
func (c *Catalog) MatchModals(lower string) []ModalMatch {
	var out []ModalMatch
	for _, m := range c.Modals {
		n := len(m.Pattern.FindAllStringIndex(lower, -1))
		if n > 0 {
			out = append(out, ModalMatch{
				Verb: m.Verb, Count: n, Weight: m.Weight, Citation: m.Citation,
			})
		}
	}
	return out
}

// FindMissingSections reports the required sections that never occur in the
// lowercased text.  Presence is binary: one occurrence anywhere satisfies the
// requirement.  Results keep catalog order, so an empty document yields the
// full section list in catalog order.
func (c *Catalog) FindMissingSections(lower string) []SectionGap {
	var out []SectionGap
	for _, s := range c.Sections {
		if !s.Pattern.MatchString(lower) {
			out = append(out, SectionGap{Section: s.Section, Citation: s.Citation})
		}
	}
	return out
}
