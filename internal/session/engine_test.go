package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/sentype/internal/model"
	"github.com/verte-zerg/sentype/internal/pool"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type recorderFunc func(model.Round) error

func (f recorderFunc) RecordRound(_ context.Context, r model.Round) error { return f(r) }

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk gone")
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk gone")
}

func newTestEngine(t *testing.T, store Store, opts ...Option) (*Engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	base := []Option{
		WithClock(clock),
		WithBuiltins([]string{"cat"}),
		WithPicker(pool.NewPicker(1)),
	}
	return New(store, append(base, opts...)...), clock
}

func typeAll(e *Engine, values ...string) {
	for _, v := range values {
		e.Change(v)
	}
}

func TestHappyPathCompletesWithoutMistakes(t *testing.T) {
	e, clock := newTestEngine(t, NewMemoryStore())

	e.Change("c")
	clock.advance(1500 * time.Millisecond)
	e.Change("ca")
	clock.advance(1234 * time.Millisecond)
	e.Change("cat")

	v := e.View()
	assert.Equal(t, 0, v.Mistakes)
	assert.True(t, v.Completed)
	assert.Equal(t, 2730*time.Millisecond, v.Elapsed)
	require.IsType(t, Completed{}, e.State())
}

func TestWrongCharacterCountsOnce(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore())

	typeAll(e, "c", "cx")

	v := e.View()
	assert.Equal(t, 1, v.Mistakes)
	assert.Equal(t, "cx", v.Input)
	assert.False(t, v.Completed)
}

func TestDeletionNeverPenalized(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore())

	typeAll(e, "x", "xy")
	require.Equal(t, 2, e.View().Mistakes)

	typeAll(e, "x", "")
	assert.Equal(t, 2, e.View().Mistakes)

	typeAll(e, "c", "ca")
	assert.Equal(t, 2, e.View().Mistakes, "retyped characters matching the target are free")
}

func TestCompositionSuppressesMistakes(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore())

	e.CompositionStart()
	typeAll(e, "x", "xq", "xqz")
	assert.Equal(t, 0, e.View().Mistakes)
	assert.True(t, e.View().Composing)
	e.CompositionEnd()

	e.Change("")
	e.Change("z")
	assert.Equal(t, 1, e.View().Mistakes)
}

func TestMultiCharacterJumpJudgesOnlyLastIndex(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore())

	e.Change("xxt")
	assert.Equal(t, 0, e.View().Mistakes)

	e.Change("")
	e.Change("xa")
	assert.Equal(t, 0, e.View().Mistakes)
}

func TestOvertypingIsNotScored(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore())

	typeAll(e, "c", "ca", "cax", "caxy")
	assert.Equal(t, 1, e.View().Mistakes)
}

func TestCompletionIsIdempotent(t *testing.T) {
	e, clock := newTestEngine(t, NewMemoryStore())

	typeAll(e, "c", "ca")
	clock.advance(2 * time.Second)
	e.Change("cat")
	before := e.View()

	clock.advance(5 * time.Second)
	typeAll(e, "catx", "ca", "zzz")

	after := e.View()
	assert.Equal(t, before, after)
	assert.Equal(t, "cat", after.Input)
}

func TestTimerStartsOnFirstInput(t *testing.T) {
	e, clock := newTestEngine(t, NewMemoryStore())

	require.IsType(t, NotStarted{}, e.State())
	clock.advance(10 * time.Second)
	e.Change("c")
	require.Equal(t, InProgress{StartedAt: clock.now}, e.State())

	started := clock.now
	clock.advance(time.Second)
	typeAll(e, "", "c")
	assert.Equal(t, InProgress{StartedAt: started}, e.State(), "clearing the field keeps the timer")
}

func TestCompositionJumpStartsTimer(t *testing.T) {
	e, clock := newTestEngine(t, NewMemoryStore(), WithBuiltins([]string{"小確幸"}))

	e.CompositionStart()
	e.Change("小確")
	e.CompositionEnd()
	started := clock.now
	clock.advance(3 * time.Second)
	e.Change("小確幸")

	require.Equal(t, Completed{StartedAt: started, Elapsed: 3 * time.Second, NewBest: true}, e.State())
}

func TestElapsedRoundsToHundredths(t *testing.T) {
	e, clock := newTestEngine(t, NewMemoryStore())

	e.Change("c")
	clock.advance(1234567 * time.Microsecond)
	typeAll(e, "ca", "cat")

	assert.Equal(t, 1230*time.Millisecond, e.View().Elapsed)
}

func TestBestRecordTracksMinimum(t *testing.T) {
	store := NewMemoryStore()
	e, clock := newTestEngine(t, store)

	var got []time.Duration
	for _, d := range []time.Duration{3 * time.Second, 5 * time.Second, 2 * time.Second, 2 * time.Second, 4 * time.Second} {
		e.Change("c")
		clock.advance(d)
		typeAll(e, "ca", "cat")
		best, ok := e.Best()
		require.True(t, ok)
		got = append(got, best)
		e.Restart()
	}

	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second}, got)
	raw, ok, _ := store.Get(context.Background(), KeyBestTime)
	require.True(t, ok)
	assert.Equal(t, "2.00", raw)
}

func TestBestRecordLoadedFromStore(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), KeyBestTime, "1.50"))
	e, clock := newTestEngine(t, store)

	best, ok := e.Best()
	require.True(t, ok)
	assert.Equal(t, 1500*time.Millisecond, best)

	e.Change("c")
	clock.advance(2 * time.Second)
	typeAll(e, "ca", "cat")

	best, _ = e.Best()
	assert.Equal(t, 1500*time.Millisecond, best, "slower round must not replace the record")
}

func TestMalformedPersistedValuesAreAbsent(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), KeyBestTime, "fast"))
	require.NoError(t, store.Set(context.Background(), KeyCustomSentences, "{not json"))

	e, _ := newTestEngine(t, store)

	_, ok := e.Best()
	assert.False(t, ok)
	assert.Empty(t, e.Custom())
}

func TestStoreFailuresAreTolerated(t *testing.T) {
	e, clock := newTestEngine(t, failingStore{})

	assert.True(t, e.AddSentence("dog"))
	e.Change("c")
	clock.advance(time.Second)

	assert.NotPanics(t, func() { typeAll(e, "ca", "cat") })
	assert.Contains(t, e.Custom(), "dog")
}

func TestRestartResetsRound(t *testing.T) {
	e, clock := newTestEngine(t, NewMemoryStore())

	typeAll(e, "x", "xa")
	clock.advance(time.Second)
	e.Change("cat")
	e.Restart()

	v := e.View()
	assert.Equal(t, 0, v.Mistakes)
	assert.Equal(t, "", v.Input)
	assert.False(t, v.Completed)
	assert.Zero(t, v.Elapsed)
	assert.Equal(t, NotStarted{}, e.State())
	assert.Contains(t, e.Effective(), v.Target)
}

func TestRestartDrawsFromCustomSentences(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore())
	require.True(t, e.AddSentence("dog"))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		e.Restart()
		seen[e.View().Target] = true
	}
	assert.Equal(t, map[string]bool{"cat": true, "dog": true}, seen)
}

func TestSentencesPersistAfterMutation(t *testing.T) {
	store := NewMemoryStore()
	e, _ := newTestEngine(t, store)

	require.True(t, e.AddSentence("  dog "))
	require.True(t, e.AddSentence("bird"))
	assert.False(t, e.AddSentence("cat"))
	assert.False(t, e.AddSentence("dog"))
	require.True(t, e.DeleteSentence(0))
	assert.False(t, e.DeleteSentence(5))

	raw, ok, _ := store.Get(context.Background(), KeyCustomSentences)
	require.True(t, ok)
	assert.JSONEq(t, `["bird"]`, raw)

	reloaded, _ := newTestEngine(t, store)
	assert.Equal(t, []string{"bird"}, reloaded.Custom())
}

func TestRecorderReceivesCompletedRound(t *testing.T) {
	var rounds []model.Round
	rec := recorderFunc(func(r model.Round) error {
		rounds = append(rounds, r)
		return nil
	})
	e, clock := newTestEngine(t, NewMemoryStore(), WithRecorder(rec))

	typeAll(e, "c", "cx", "c")
	clock.advance(1500 * time.Millisecond)
	typeAll(e, "ca", "cat")
	e.Change("catt")

	require.Len(t, rounds, 1)
	r := rounds[0]
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "cat", r.Target)
	assert.Equal(t, 1, r.Mistakes)
	assert.Equal(t, 1500*time.Millisecond, r.Elapsed)
	assert.True(t, r.NewBest)
	assert.Equal(t, r.StartedAt.Add(1500*time.Millisecond), r.EndedAt)
}

func TestResetBest(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), KeyBestTime, "4.20"))
	e, _ := newTestEngine(t, store)

	e.ResetBest()
	_, ok := e.Best()
	assert.False(t, ok)

	reloaded, _ := newTestEngine(t, store)
	_, ok = reloaded.Best()
	assert.False(t, ok)
}
