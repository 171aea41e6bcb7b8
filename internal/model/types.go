// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Seed           int64  `validate:"gte=0"`
	RefocusDelayMs int    `validate:"gte=0,lte=5000"`
	DBPath         string `validate:"required"`
	LogLevel       string `validate:"omitempty,oneof=debug info warn error"`
	LogPath        string `validate:"required"`
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Round captures a completed practice session.
type Round struct {
	ID        string
	Target    string
	Mistakes  int
	Elapsed   time.Duration
	StartedAt time.Time
	EndedAt   time.Time
	NewBest   bool
}

// RoundAggregate summarizes a stored round for reporting.
type RoundAggregate struct {
	ID       string
	EndedAt  time.Time
	Target   string
	Runes    int
	Mistakes int
	Elapsed  time.Duration
	NewBest  bool
}
