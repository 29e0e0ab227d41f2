// Package sampler draws categories from weighted facets. One draw per
// facet per question slot; draws are independent trials with no state
// between them.
package sampler

import (
	"math/rand"
	"sync"

	"github.com/raglab/morgana/internal/domain"
)

// Source supplies the randomness for weighted and uniform draws.
// *rand.Rand satisfies it; production wiring uses the process-wide
// generator, tests inject a seeded one.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// globalSource delegates to math/rand's process-wide generator, which
// is safe for concurrent use by pool workers.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) Intn(n int) int   { return rand.Intn(n) }

// lockedSource serializes access to a seeded *rand.Rand so a
// deterministic run can still fan out across workers.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// NewSeededSource creates a deterministic, concurrency-safe source.
func NewSeededSource(seed int64) Source {
	return &lockedSource{r: rand.New(rand.NewSource(seed))} //nolint:gosec // sampling, not crypto
}

// Sampler performs probability-weighted category selection.
type Sampler struct {
	src Source
}

// New creates a sampler backed by the process-wide random generator.
func New() *Sampler {
	return &Sampler{src: globalSource{}}
}

// NewWithSource creates a sampler with an injected random source.
func NewWithSource(src Source) *Sampler {
	return &Sampler{src: src}
}

// Pick returns one category from the facet, selected with probability
// proportional to its weight. A single-category facet always returns
// that category regardless of its weight. Zero-weight categories are
// unreachable unless every weight is zero, in which case the draw is
// uniform.
func (s *Sampler) Pick(c domain.Categorization) domain.Category {
	cats := c.Categories
	if len(cats) == 1 {
		return cats[0]
	}

	var total float64
	for _, cat := range cats {
		if cat.Probability > 0 {
			total += cat.Probability
		}
	}
	if total <= 0 {
		return cats[s.src.Intn(len(cats))]
	}

	target := s.src.Float64() * total
	for _, cat := range cats {
		if cat.Probability <= 0 {
			continue
		}
		target -= cat.Probability
		if target < 0 {
			return cat
		}
	}
	// Float rounding can leave target at exactly zero; the last
	// positive-weight category takes the draw.
	for i := len(cats) - 1; i >= 0; i-- {
		if cats[i].Probability > 0 {
			return cats[i]
		}
	}
	return cats[len(cats)-1]
}

// PickAll draws one category per facet, in facet order.
func (s *Sampler) PickAll(facets []domain.Categorization) []domain.Category {
	picked := make([]domain.Category, 0, len(facets))
	for _, f := range facets {
		picked = append(picked, s.Pick(f))
	}
	return picked
}

// ChooseIndex returns a uniformly random index in [0, n). Used by the
// document processor to select one survivor per slot.
func (s *Sampler) ChooseIndex(n int) int {
	if n <= 1 {
		return 0
	}
	return s.src.Intn(n)
}
