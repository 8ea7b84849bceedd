package contract

import "math"

// Verdict is the outcome of risk aggregation: the clamped score, the final
// classification, the strength grade, and the ordered citation trail.
type Verdict struct {
	RiskScore      int
	Classification Label
	Strength       Strength
	CitationTrail  []string
}

// modalPoints converts one modal occurrence into score points.  Weights are
// multiples of 0.1 so the product is integral; rounding guards against
// float representation noise.
func modalPoints(count int, weight float64) int {
	return int(math.Round(float64(count) * weight * ModalScale))
}

// Aggregate combines matcher output and the classifier verdict into a
// Verdict.  It is pure and cannot fail.
//
// Scoring: each ambiguous occurrence adds AmbiguousPoints, each weak
// indicator adds WeakIndicatorPoints, each modal occurrence adds its weight
// times ModalScale, each missing section adds MissingSectionPenalty.  The
// sum is clamped to MaxScore.  Every contribution is non-negative, so adding
// an occurrence of any scored phrase never lowers the score.
//
// Classification: Risky when the clamped score exceeds HighFloor or the
// classifier says Risky.  A Risky verdict always grades Weak, even when the
// score alone would not reach the high bucket; otherwise the score decides
// (above ModerateFloor grades Moderate, at or below grades Strong).
//
// The citation trail lists per-finding citations in detection order, then
// the threshold citation for the bucket taken, then the blanket sources.
func (c *Catalog) Aggregate(ambiguous, weak []TermMatch, modals []ModalMatch, gaps []SectionGap, classifier Label) Verdict {
	score := 0
	trail := make([]string, 0, len(ambiguous)+len(weak)+len(modals)+len(gaps)+4)

	for _, m := range ambiguous {
		score += m.Count * AmbiguousPoints
		trail = append(trail, m.Citation)
	}
	for _, m := range weak {
		score += m.Count * WeakIndicatorPoints
		trail = append(trail, m.Citation)
	}
	for _, m := range modals {
		score += modalPoints(m.Count, m.Weight)
		trail = append(trail, m.Verb+": "+m.Citation)
	}
	for _, g := range gaps {
		score += MissingSectionPenalty
		trail = append(trail, g.Citation)
	}

	if score > MaxScore {
		score = MaxScore
	}

	v := Verdict{RiskScore: score}
	switch {
	case score > HighFloor || classifier == LabelRisky:
		v.Classification = LabelRisky
		v.Strength = StrengthWeak
		trail = append(trail, "High risk (>60): "+c.Thresholds.High)
	case score > ModerateFloor:
		v.Classification = LabelValid
		v.Strength = StrengthModerate
		trail = append(trail, "Moderate risk (30-60): "+c.Thresholds.Moderate)
	default:
		v.Classification = LabelValid
		v.Strength = StrengthStrong
		trail = append(trail, "Low risk (<30): "+c.Thresholds.Low)
	}

	trail = append(trail,
		"Analysis based on: "+c.AmbiguousSource,
		"Analysis based on: "+c.WeakSource,
		"Risk thresholds from: "+c.ThresholdsSource,
	)

	v.CitationTrail = trail
	return v
}
