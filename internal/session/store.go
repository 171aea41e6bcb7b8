package session

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/sentype/internal/model"
)

// Persisted keys.
const (
	KeyBestTime        = "best_time"
	KeyCustomSentences = "custom_sentences"
)

// Store is the key-value persistence the engine reads at construction and
// writes after every mutation.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Recorder receives every completed round.
type Recorder interface {
	RecordRound(ctx context.Context, round model.Round) error
}

// Clock supplies wall-clock time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the real wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FormatBest encodes a best time as decimal seconds with two places.
func FormatBest(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 2, 64)
}

// ParseBest decodes a stored best time. Empty, malformed, negative or
// non-finite values report ok=false.
func ParseBest(raw string) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) || secs < 0 {
		return 0, false
	}
	return roundElapsed(time.Duration(secs * float64(time.Second))), true
}

// EncodeSentences serializes the custom list as a JSON array.
func EncodeSentences(sentences []string) string {
	if sentences == nil {
		sentences = []string{}
	}
	data, err := json.Marshal(sentences)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeSentences parses a stored custom list. Anything that is not a JSON
// array of strings reports ok=false.
func DecodeSentences(raw string) ([]string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false
	}
	return out, true
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}
