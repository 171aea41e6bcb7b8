// Package pool holds the practice sentences: a fixed built-in list plus a
// user-extensible custom list.
package pool

import (
	"strings"

	"github.com/verte-zerg/sentype/internal/sentencelist"
)

// Builtins is the sentence list every pool starts from.
var Builtins = []string{
	"Hello world",
	"Coding is fun!",
	"React makes UI easy",
	"小確幸從今天開始",
	"12345 67890",
	"打字遊戲加油！",
}

// Pool merges built-in and custom sentences. The built-in list is never empty,
// so Effective always has something to pick from.
type Pool struct {
	builtins []string
	custom   []string
}

// New returns a pool over the given built-ins and an initial custom list.
// Custom entries that Add would reject are dropped.
func New(builtins, custom []string) *Pool {
	if len(builtins) == 0 {
		builtins = Builtins
	}
	p := &Pool{builtins: append([]string(nil), builtins...)}
	for _, s := range custom {
		p.Add(s)
	}
	return p
}

// Add appends text to the custom list after trimming surrounding whitespace.
// It reports false and leaves the pool unchanged when the trimmed text is
// empty, contains control characters or is already present in Effective.
func (p *Pool) Add(text string) bool {
	text = strings.TrimSpace(text)
	if !sentencelist.Practicable(text) || p.contains(text) {
		return false
	}
	p.custom = append(p.custom, text)
	return true
}

// Delete removes the custom entry at index. Indices address the custom list
// only. It reports false when index is out of range.
func (p *Pool) Delete(index int) bool {
	if index < 0 || index >= len(p.custom) {
		return false
	}
	p.custom = append(p.custom[:index:index], p.custom[index+1:]...)
	return true
}

// Effective returns builtins followed by custom entries.
func (p *Pool) Effective() []string {
	out := make([]string, 0, len(p.builtins)+len(p.custom))
	out = append(out, p.builtins...)
	return append(out, p.custom...)
}

// Custom returns a copy of the custom entries in insertion order.
func (p *Pool) Custom() []string {
	return append([]string(nil), p.custom...)
}

// Builtins returns a copy of the built-in entries.
func (p *Pool) Builtins() []string {
	return append([]string(nil), p.builtins...)
}

func (p *Pool) contains(text string) bool {
	for _, s := range p.builtins {
		if s == text {
			return true
		}
	}
	for _, s := range p.custom {
		if s == text {
			return true
		}
	}
	return false
}
