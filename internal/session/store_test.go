package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBest(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
		ok   bool
	}{
		{"3.42", 3420 * time.Millisecond, true},
		{" 12 ", 12 * time.Second, true},
		{"0.006", 10 * time.Millisecond, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-1", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseBest(tc.raw)
		assert.Equal(t, tc.ok, ok, "ParseBest(%q)", tc.raw)
		assert.Equal(t, tc.want, got, "ParseBest(%q)", tc.raw)
	}
}

func TestFormatBest(t *testing.T) {
	assert.Equal(t, "3.42", FormatBest(3420*time.Millisecond))
	assert.Equal(t, "10.00", FormatBest(10*time.Second))
}

func TestDecodeSentences(t *testing.T) {
	got, ok := DecodeSentences(`["a", "小確幸"]`)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "小確幸"}, got)

	for _, raw := range []string{"", "null-ish", `{"a":1}`, `[1,2]`} {
		_, ok := DecodeSentences(raw)
		assert.False(t, ok, "DecodeSentences(%q)", raw)
	}
}

func TestEncodeSentencesEmpty(t *testing.T) {
	assert.Equal(t, "[]", EncodeSentences(nil))
	assert.Equal(t, `["a"]`, EncodeSentences([]string{"a"}))
}
