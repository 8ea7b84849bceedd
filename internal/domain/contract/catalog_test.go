package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlex/lexml/pkg/errors"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	require.NoError(t, DefaultCatalog().Validate())
}

func TestDefaultCatalogShape(t *testing.T) {
	cat := DefaultCatalog()

	assert.Len(t, cat.Ambiguous, 3)
	assert.Len(t, cat.Weak, 3)
	assert.Len(t, cat.Modals, 4)
	assert.Len(t, cat.Sections, 5)

	weights := map[string]float64{}
	for _, m := range cat.Modals {
		weights[m.Verb] = m.Weight
	}
	assert.Equal(t, map[string]float64{
		"shall":  0.2,
		"must":   0.1,
		"may":    0.5,
		"should": 0.4,
	}, weights)
}

func TestCatalogValidateRejectsBrokenEntries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Catalog)
	}{
		{"empty ambiguous citation", func(c *Catalog) { c.Ambiguous[0].Citation = "" }},
		{"nil weak pattern", func(c *Catalog) { c.Weak[1].Pattern = nil }},
		{"modal weight zero", func(c *Catalog) { c.Modals[2].Weight = 0 }},
		{"modal weight above one", func(c *Catalog) { c.Modals[0].Weight = 2 }},
		{"empty section name", func(c *Catalog) { c.Sections[3].Section = "" }},
		{"missing threshold citation", func(c *Catalog) { c.Thresholds.High = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := DefaultCatalog()
			tt.mutate(cat)
			err := cat.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogInvalid))
		})
	}
}

func TestNilCatalogInvalid(t *testing.T) {
	var cat *Catalog
	assert.Error(t, cat.Validate())
}

func TestNewCatalogCompilesSpec(t *testing.T) {
	spec := CatalogSpec{
		AmbiguousSource: "src-a",
		Ambiguous: []TermSpec{
			{Term: "best endeavours", Citation: "cite-a"},
		},
		WeakSource: "src-w",
		Weak: []TermSpec{
			{Term: "void", Pattern: `\bvoid(able)?\b`, Citation: "cite-w"},
		},
		ModalSource: "src-m",
		Modals: []ModalSpec{
			{Verb: "will", Weight: 0.3, Citation: "cite-m"},
		},
		SectionsSource: "src-s",
		Sections: []TermSpec{
			{Term: "arbitration", Citation: "cite-s"},
		},
		ThresholdsSource: "src-t",
		Thresholds:       ThresholdsSpec{Low: "l", Moderate: "m", High: "h"},
	}

	cat, err := NewCatalog(spec)
	require.NoError(t, err)

	// Derived whole-word pattern from the literal term.
	assert.True(t, cat.Ambiguous[0].Pattern.MatchString("use best endeavours here"))
	assert.False(t, cat.Ambiguous[0].Pattern.MatchString("bestendeavours"))

	// Explicit pattern used verbatim.
	assert.True(t, cat.Weak[0].Pattern.MatchString("this clause is voidable"))

	matches := cat.MatchModals("the party will comply")
	require.Len(t, matches, 1)
	assert.Equal(t, 0.3, matches[0].Weight)
}

func TestNewCatalogRejectsBadPattern(t *testing.T) {
	spec := CatalogSpec{
		Ambiguous:  []TermSpec{{Term: "x", Pattern: `[unclosed`, Citation: "c"}},
		Thresholds: ThresholdsSpec{Low: "l", Moderate: "m", High: "h"},
	}
	_, err := NewCatalog(spec)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogInvalid))
}
