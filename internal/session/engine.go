// Package session drives a single sentence-practice round: it tracks the
// typed input against the target, counts mistakes, times the round and keeps
// the best time.
//
// The engine is meant to be driven from one event loop and does no locking.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/sentype/internal/model"
	"github.com/verte-zerg/sentype/internal/pool"
)

// View is the read-only snapshot a renderer needs. Elapsed and NewBest are
// only meaningful when Completed is true.
type View struct {
	Target    string
	Input     string
	Mistakes  int
	Completed bool
	Elapsed   time.Duration
	NewBest   bool
	Best      time.Duration
	HasBest   bool
	Composing bool
	Custom    []string
	Builtins  int
}

// Engine owns the current round, the sentence pool and the best record.
type Engine struct {
	store    Store
	recorder Recorder
	clock    Clock
	picker   *pool.Picker
	logger   *slog.Logger
	pool     *pool.Pool

	target    []rune
	input     []rune
	mistakes  int
	state     State
	composing bool

	best    time.Duration
	hasBest bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithPicker replaces the random target picker.
func WithPicker(p *pool.Picker) Option {
	return func(e *Engine) { e.picker = p }
}

// WithRecorder registers a sink for completed rounds.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithBuiltins replaces the built-in sentence list.
func WithBuiltins(builtins []string) Option {
	return func(e *Engine) { e.pool = pool.New(builtins, nil) }
}

// New loads the best record and custom sentences from store and starts the
// first round.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		clock:  SystemClock,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.picker == nil {
		e.picker = pool.NewPicker(0)
	}
	if e.pool == nil {
		e.pool = pool.New(pool.Builtins, nil)
	}
	e.load()
	e.Restart()
	return e
}

func (e *Engine) load() {
	ctx := context.Background()
	if raw, ok := e.get(ctx, KeyBestTime); ok && raw != "" {
		if best, ok := ParseBest(raw); ok {
			e.best, e.hasBest = best, true
		} else {
			e.logger.Warn("ignoring malformed best time", "value", raw)
		}
	}
	if raw, ok := e.get(ctx, KeyCustomSentences); ok {
		custom, ok := DecodeSentences(raw)
		if !ok {
			e.logger.Warn("ignoring malformed custom sentences", "value", raw)
			return
		}
		for _, s := range custom {
			e.pool.Add(s)
		}
	}
}

func (e *Engine) get(ctx context.Context, key string) (string, bool) {
	if e.store == nil {
		return "", false
	}
	raw, ok, err := e.store.Get(ctx, key)
	if err != nil {
		e.logger.Warn("failed to read persisted value", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}

func (e *Engine) set(key, value string) {
	if e.store == nil {
		return
	}
	if err := e.store.Set(context.Background(), key, value); err != nil {
		e.logger.Error("failed to persist value", "key", key, "error", err)
	}
}

// Restart begins a new round with a freshly drawn target.
func (e *Engine) Restart() {
	e.target = []rune(e.picker.Next(e.pool))
	e.input = nil
	e.mistakes = 0
	e.state = NotStarted{}
}

// CompositionStart raises the composition signal.
func (e *Engine) CompositionStart() { e.composing = true }

// CompositionEnd lowers the composition signal.
func (e *Engine) CompositionEnd() { e.composing = false }

// SetComposing sets the composition signal.
func (e *Engine) SetComposing(composing bool) { e.composing = composing }

// Change applies the full current value of the input field. It is ignored once
// the round is completed.
func (e *Engine) Change(val string) {
	if _, done := e.state.(Completed); done {
		return
	}
	next := []rune(val)

	// Only a grown, non-composing input is judged, and only at its last rune.
	// Earlier runes of a multi-rune jump are never scored.
	if !e.composing && len(next) > len(e.input) && len(next) <= len(e.target) {
		i := len(next) - 1
		if next[i] != e.target[i] {
			e.mistakes++
		}
	}
	e.input = next

	now := e.clock.Now()
	if _, fresh := e.state.(NotStarted); fresh && len(next) > 0 {
		e.state = InProgress{StartedAt: now}
	}
	if string(e.input) == string(e.target) {
		if running, ok := e.state.(InProgress); ok {
			e.complete(running.StartedAt, now)
		}
	}
}

func (e *Engine) complete(startedAt, now time.Time) {
	elapsed := roundElapsed(now.Sub(startedAt))
	newBest := !e.hasBest || elapsed < e.best
	e.state = Completed{StartedAt: startedAt, Elapsed: elapsed, NewBest: newBest}
	if newBest {
		e.best, e.hasBest = elapsed, true
		e.set(KeyBestTime, FormatBest(elapsed))
	}
	e.logger.Debug("round completed",
		"target", string(e.target),
		"mistakes", e.mistakes,
		"elapsed", elapsed,
		"new_best", newBest)

	if e.recorder == nil {
		return
	}
	round := model.Round{
		ID:        uuid.NewString(),
		Target:    string(e.target),
		Mistakes:  e.mistakes,
		Elapsed:   elapsed,
		StartedAt: startedAt,
		EndedAt:   now,
		NewBest:   newBest,
	}
	if err := e.recorder.RecordRound(context.Background(), round); err != nil {
		e.logger.Error("failed to record round", "error", err)
	}
}

// AddSentence adds text to the custom pool and persists the list. Blank or
// duplicate text is ignored.
func (e *Engine) AddSentence(text string) bool {
	if !e.pool.Add(text) {
		return false
	}
	e.persistCustom()
	return true
}

// DeleteSentence removes the custom sentence at index and persists the list.
// Out-of-range indices are ignored.
func (e *Engine) DeleteSentence(index int) bool {
	if !e.pool.Delete(index) {
		return false
	}
	e.persistCustom()
	return true
}

func (e *Engine) persistCustom() {
	e.set(KeyCustomSentences, EncodeSentences(e.pool.Custom()))
}

// ResetBest forgets the best record.
func (e *Engine) ResetBest() {
	e.best, e.hasBest = 0, false
	e.set(KeyBestTime, "")
}

// State returns the current round phase.
func (e *Engine) State() State { return e.state }

// Best returns the best record, if any.
func (e *Engine) Best() (time.Duration, bool) { return e.best, e.hasBest }

// Custom returns the custom sentences in insertion order.
func (e *Engine) Custom() []string { return e.pool.Custom() }

// Effective returns every sentence a round can draw from.
func (e *Engine) Effective() []string { return e.pool.Effective() }

// View returns a snapshot of the round for rendering.
func (e *Engine) View() View {
	v := View{
		Target:    string(e.target),
		Input:     string(e.input),
		Mistakes:  e.mistakes,
		Best:      e.best,
		HasBest:   e.hasBest,
		Composing: e.composing,
		Custom:    e.pool.Custom(),
		Builtins:  len(e.pool.Builtins()),
	}
	if done, ok := e.state.(Completed); ok {
		v.Completed = true
		v.Elapsed = done.Elapsed
		v.NewBest = done.NewBest
	}
	return v
}
