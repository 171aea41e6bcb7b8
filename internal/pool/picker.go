package pool

import (
	"math/rand"
	"time"
)

// Picker draws practice targets from pool snapshots.
type Picker struct {
	rnd *rand.Rand
}

// NewPicker returns a Picker seeded with the current time, or with seed when
// it is non-zero.
func NewPicker(seed int64) *Picker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Next picks a sentence from the pool's current effective list.
func (pk *Picker) Next(p *Pool) string {
	return Pick(p.Effective(), pk.rnd)
}

// Pick returns a uniformly random element of sentences. It returns "" for an
// empty slice.
func Pick(sentences []string, rnd *rand.Rand) string {
	if len(sentences) == 0 {
		return ""
	}
	return sentences[rnd.Intn(len(sentences))]
}
