package sampler

import (
	"math"
	"testing"

	"github.com/raglab/morgana/internal/domain"
)

func TestPick_SingleCategory(t *testing.T) {
	s := NewWithSource(NewSeededSource(1))

	for _, weight := range []float64{0, 0.5, 1, 100} {
		c := domain.Categorization{
			Name:       "solo",
			Categories: []domain.Category{{Name: "only", Probability: weight}},
		}
		got := s.Pick(c)
		if got.Name != "only" {
			t.Fatalf("weight %v: expected the single category, got %q", weight, got.Name)
		}
	}
}

func TestPick_FrequenciesConverge(t *testing.T) {
	s := NewWithSource(NewSeededSource(42))

	c := domain.Categorization{
		Name: "phrasing",
		Categories: []domain.Category{
			{Name: "a", Probability: 0.2},
			{Name: "b", Probability: 0.3},
			{Name: "c", Probability: 0.5},
		},
	}

	const draws = 20000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		counts[s.Pick(c).Name]++
	}

	for _, cat := range c.Categories {
		got := float64(counts[cat.Name]) / draws
		if math.Abs(got-cat.Probability) > 0.02 {
			t.Errorf("category %q: frequency %.3f, expected ~%.3f", cat.Name, got, cat.Probability)
		}
	}
}

func TestPick_UnnormalizedWeights(t *testing.T) {
	s := NewWithSource(NewSeededSource(7))

	// Weights sum to 5; relative shares are 1/5 and 4/5.
	c := domain.Categorization{
		Name: "expertise",
		Categories: []domain.Category{
			{Name: "rare", Probability: 1},
			{Name: "common", Probability: 4},
		},
	}

	const draws = 20000
	common := 0
	for i := 0; i < draws; i++ {
		if s.Pick(c).Name == "common" {
			common++
		}
	}

	got := float64(common) / draws
	if math.Abs(got-0.8) > 0.02 {
		t.Errorf("expected ~0.8 share for weight 4/5, got %.3f", got)
	}
}

func TestPick_ZeroWeightUnreachable(t *testing.T) {
	s := NewWithSource(NewSeededSource(3))

	c := domain.Categorization{
		Name: "lang",
		Categories: []domain.Category{
			{Name: "dead", Probability: 0},
			{Name: "live", Probability: 0.1},
		},
	}

	for i := 0; i < 5000; i++ {
		if got := s.Pick(c); got.Name == "dead" {
			t.Fatal("zero-weight category must never be drawn")
		}
	}
}

func TestPickAll_OnePerFacet(t *testing.T) {
	s := NewWithSource(NewSeededSource(9))
	tax := domain.DefaultTaxonomy()

	picked := s.PickAll(tax.QuestionCategorizations)
	if len(picked) != len(tax.QuestionCategorizations) {
		t.Fatalf("expected %d picks, got %d", len(tax.QuestionCategorizations), len(picked))
	}
	for i, facet := range tax.QuestionCategorizations {
		found := false
		for _, cat := range facet.Categories {
			if cat.Name == picked[i].Name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("pick %d (%q) is not a member of facet %q", i, picked[i].Name, facet.Name)
		}
	}
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := NewWithSource(NewSeededSource(99))
	b := NewWithSource(NewSeededSource(99))

	tax := domain.DefaultTaxonomy()
	for i := 0; i < 100; i++ {
		for _, facet := range tax.QuestionCategorizations {
			if a.Pick(facet).Name != b.Pick(facet).Name {
				t.Fatal("identical seeds must yield identical draws")
			}
		}
	}
}
