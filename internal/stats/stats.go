// Package stats contains round history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/sentype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// RoundMetrics computes characters per minute and accuracy for a round.
// Accuracy is the share of target runes typed without a counted mistake.
func RoundMetrics(runes, mistakes int, elapsed time.Duration) (cpm, accuracy float64) {
	if runes > 0 {
		accuracy = 1 - float64(mistakes)/float64(runes)
		if accuracy < 0 {
			accuracy = 0
		}
	}
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0, accuracy
	}
	return float64(runes) / minutes, accuracy
}

// Summary aggregates a list of rounds.
type Summary struct {
	Rounds       int
	Best         time.Duration
	AvgElapsed   time.Duration
	AvgMistakes  float64
	AvgCPM       float64
	AvgAccuracy  float64
	FlawlessRuns int
}

// Summarize computes aggregate metrics over rounds.
func Summarize(rounds []model.RoundAggregate) Summary {
	var s Summary
	if len(rounds) == 0 {
		return s
	}
	var totalElapsed time.Duration
	var totalMistakes int
	var totalCPM, totalAcc float64
	for i, r := range rounds {
		cpm, acc := RoundMetrics(r.Runes, r.Mistakes, r.Elapsed)
		totalElapsed += r.Elapsed
		totalMistakes += r.Mistakes
		totalCPM += cpm
		totalAcc += acc
		if i == 0 || r.Elapsed < s.Best {
			s.Best = r.Elapsed
		}
		if r.Mistakes == 0 {
			s.FlawlessRuns++
		}
	}
	count := len(rounds)
	s.Rounds = count
	s.AvgElapsed = totalElapsed / time.Duration(count)
	s.AvgMistakes = float64(totalMistakes) / float64(count)
	s.AvgCPM = totalCPM / float64(count)
	s.AvgAccuracy = totalAcc / float64(count)
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample shrinks values to at most width points by averaging buckets.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// RenderSummary prints a summary block for rounds.
func RenderSummary(w io.Writer, rounds []model.RoundAggregate) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	s := Summarize(rounds)
	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d", s.Rounds),
		fmt.Sprintf("Best time: %s", FormatSeconds(s.Best)),
		fmt.Sprintf("Avg time: %s", FormatSeconds(s.AvgElapsed)),
		fmt.Sprintf("Avg mistakes: %.2f", s.AvgMistakes),
		fmt.Sprintf("Avg CPM: %.1f", s.AvgCPM),
		fmt.Sprintf("Avg accuracy: %.2f%%", s.AvgAccuracy*100),
		fmt.Sprintf("Flawless rounds: %d", s.FlawlessRuns),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints moving-average sparklines of elapsed time and mistakes,
// fitted to width columns.
func RenderTrend(w io.Writer, rounds []model.RoundAggregate, window, width int) error {
	if len(rounds) < 2 {
		return nil
	}
	elapsed := make([]float64, len(rounds))
	mistakes := make([]float64, len(rounds))
	for i, r := range rounds {
		elapsed[i] = r.Elapsed.Seconds()
		mistakes[i] = float64(r.Mistakes)
	}
	const labelWidth = 10
	plotWidth := width - labelWidth
	if plotWidth < 10 {
		plotWidth = 10
	}
	rows := [][2]string{
		{"Time", Sparkline(Resample(MovingAverage(elapsed, window), plotWidth))},
		{"Mistakes", Sparkline(Resample(MovingAverage(mistakes, window), plotWidth))},
	}
	if _, err := fmt.Fprintf(w, "Trend (moving average, window %d)\n", window); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-*s|%s|\n", labelWidth-2, row[0], row[1]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderRoundTable prints the given rounds, newest first.
func RenderRoundTable(w io.Writer, rounds []model.RoundAggregate, limit int) error {
	if len(rounds) == 0 {
		return nil
	}
	if limit > 0 && len(rounds) > limit {
		rounds = rounds[len(rounds)-limit:]
	}
	if _, err := fmt.Fprintln(w, "Recent Rounds"); err != nil {
		return err
	}
	headers := []string{"Ended", "Time", "Mistakes", "CPM", "Sentence"}
	tableRows := make([][]string, 0, len(rounds))
	for i := len(rounds) - 1; i >= 0; i-- {
		r := rounds[i]
		cpm, _ := RoundMetrics(r.Runes, r.Mistakes, r.Elapsed)
		timeCell := FormatSeconds(r.Elapsed)
		if r.NewBest {
			timeCell += " *"
		}
		tableRows = append(tableRows, []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			timeCell,
			fmt.Sprintf("%d", r.Mistakes),
			fmt.Sprintf("%.1f", cpm),
			r.Target,
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// FormatSeconds renders a duration as seconds with two decimals.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
