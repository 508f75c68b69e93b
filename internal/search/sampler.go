package search

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/ppiankov/edgarscan/internal/model"
)

// Sampler draws uniform random subsets without replacement
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler creates a sampler. Seed 0 seeds from the clock, so repeated
// runs draw different samples; any other seed is reproducible.
func NewSampler(seed int64) *Sampler {
	s := uint64(seed)
	if seed == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return &Sampler{rng: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// Reduce returns exactly targetCount records chosen uniformly at random
// when there are more than that, keeping their relative order. Otherwise
// it returns records unchanged.
func (s *Sampler) Reduce(records []model.FilingRecord, targetCount int) []model.FilingRecord {
	if targetCount < 0 {
		targetCount = 0
	}
	if len(records) <= targetCount {
		return records
	}

	s.mu.Lock()
	picked := s.rng.Perm(len(records))[:targetCount]
	s.mu.Unlock()

	sort.Ints(picked)
	out := make([]model.FilingRecord, 0, targetCount)
	for _, i := range picked {
		out = append(out, records[i])
	}
	return out
}
