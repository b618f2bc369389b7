// Package seed holds the evergreen seed registry and its sampling modes.
package seed

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"keyword-scout/pkg/models"
)

const DefaultSampleSize = 3

var ErrNoSeeds = errors.New("seed registry is empty")

// Registry is an immutable list of seeds plus a PRNG for sampling. The seed
// list never changes after construction; only the PRNG is guarded.
type Registry struct {
	seeds      []models.Seed
	categories []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRegistry validates seeds and builds a registry sampling with rng. A nil
// rng means a wall-clock seeded PCG.
func NewRegistry(seeds []models.Seed, rng *rand.Rand) (*Registry, error) {
	if len(seeds) == 0 {
		return nil, ErrNoSeeds
	}
	if err := Validate(seeds); err != nil {
		return nil, err
	}
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1))
	}

	r := &Registry{
		seeds: append([]models.Seed(nil), seeds...),
		rng:   rng,
	}

	seen := make(map[string]bool)
	for _, s := range r.seeds {
		if !seen[s.Category] {
			seen[s.Category] = true
			r.categories = append(r.categories, s.Category)
		}
	}
	sort.Strings(r.categories)
	return r, nil
}

// NewDefaultRegistry builds a registry over the built-in seed list.
func NewDefaultRegistry(rng *rand.Rand) *Registry {
	r, err := NewRegistry(Defaults(), rng)
	if err != nil {
		panic(fmt.Sprintf("built-in seeds are invalid: %v", err))
	}
	return r
}

// Validate checks that every seed has a term, a category and weight >= 1.
func Validate(seeds []models.Seed) error {
	for i, s := range seeds {
		if strings.TrimSpace(s.Term) == "" {
			return fmt.Errorf("seed %d: term is empty", i)
		}
		if strings.TrimSpace(s.Category) == "" {
			return fmt.Errorf("seed %q: category is empty", s.Term)
		}
		if s.Weight < 1 {
			return fmt.Errorf("seed %q: weight must be >= 1, got %d", s.Term, s.Weight)
		}
	}
	return nil
}

func (r *Registry) Seeds() []models.Seed {
	return append([]models.Seed(nil), r.seeds...)
}

func (r *Registry) ByCategory(category string) []models.Seed {
	var out []models.Seed
	for _, s := range r.seeds {
		if strings.EqualFold(s.Category, category) {
			out = append(out, s)
		}
	}
	return out
}

// Categories returns the distinct categories in sorted order.
func (r *Registry) Categories() []string {
	return append([]string(nil), r.categories...)
}

// SampleWeighted draws up to n distinct seeds. Every seed is repeated weight
// times, the multiset is shuffled and distinct terms are taken in order.
func (r *Registry) SampleWeighted(n int) []models.Seed {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sampleWeighted(r.seeds, n, nil)
}

// SampleDiverse draws up to n seeds, one per category in shuffled category
// order, then tops up from the global weighted draw when there are fewer
// categories than n.
func (r *Registry) SampleDiverse(n int) []models.Seed {
	if n <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	categories := append([]string(nil), r.categories...)
	r.rng.Shuffle(len(categories), func(i, j int) {
		categories[i], categories[j] = categories[j], categories[i]
	})

	picked := make([]models.Seed, 0, n)
	taken := make(map[string]bool)
	for _, category := range categories {
		if len(picked) >= n {
			break
		}
		var pool []models.Seed
		for _, s := range r.seeds {
			if s.Category == category {
				pool = append(pool, s)
			}
		}
		for _, s := range r.sampleWeighted(pool, 1, taken) {
			taken[strings.ToLower(s.Term)] = true
			picked = append(picked, s)
		}
	}

	if len(picked) < n {
		picked = append(picked, r.sampleWeighted(r.seeds, n-len(picked), taken)...)
	}
	return picked
}

// sampleWeighted must be called with r.mu held.
func (r *Registry) sampleWeighted(pool []models.Seed, n int, exclude map[string]bool) []models.Seed {
	if n <= 0 {
		return nil
	}

	bag := make([]int, 0, len(pool))
	for i, s := range pool {
		for w := 0; w < s.Weight; w++ {
			bag = append(bag, i)
		}
	}
	// Fisher-Yates
	for i := len(bag) - 1; i > 0; i-- {
		j := r.rng.IntN(i + 1)
		bag[i], bag[j] = bag[j], bag[i]
	}

	out := make([]models.Seed, 0, n)
	seen := make(map[string]bool)
	for _, idx := range bag {
		s := pool[idx]
		key := strings.ToLower(s.Term)
		if seen[key] || exclude[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
		if len(out) == n {
			break
		}
	}
	return out
}
