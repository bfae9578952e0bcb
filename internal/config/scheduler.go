package config

import (
	"os"
	"strconv"
	"time"
)

const (
	minScoredPostsEnv         = "SCHEDULER_MIN_SCORED_POSTS"
	windowStartHourEnv        = "SCHEDULER_WINDOW_START_HOUR"
	windowEndHourEnv          = "SCHEDULER_WINDOW_END_HOUR"
	searchHorizonDaysEnv      = "SCHEDULER_SEARCH_HORIZON_DAYS"
	calendarTimeoutSecondsEnv = "SCHEDULER_CALENDAR_TIMEOUT_SECONDS"

	// defaultMinScoredPosts is the data-sufficiency threshold: the
	// number of published posts with engagement data required before
	// the adaptive allocator takes over.
	defaultMinScoredPosts = 5

	defaultWindowStartHour        = 7
	defaultWindowEndHour          = 22
	defaultSearchHorizonDays      = 7
	defaultCalendarTimeoutSeconds = 10
)

type SchedulerConfig struct {
	MinScoredPosts    int
	WindowStartHour   int
	WindowEndHour     int
	SearchHorizonDays int
	CalendarTimeout   time.Duration
}

func LoadSchedulerConfig() *SchedulerConfig {
	minScored := defaultMinScoredPosts
	if v := os.Getenv(minScoredPostsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			minScored = parsed
		}
	}

	windowStart := defaultWindowStartHour
	if v := os.Getenv(windowStartHourEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed < 24 {
			windowStart = parsed
		}
	}

	windowEnd := defaultWindowEndHour
	if v := os.Getenv(windowEndHourEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 24 {
			windowEnd = parsed
		}
	}

	horizonDays := defaultSearchHorizonDays
	if v := os.Getenv(searchHorizonDaysEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			horizonDays = parsed
		}
	}

	calendarTimeout := defaultCalendarTimeoutSeconds
	if v := os.Getenv(calendarTimeoutSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			calendarTimeout = parsed
		}
	}

	return &SchedulerConfig{
		MinScoredPosts:    minScored,
		WindowStartHour:   windowStart,
		WindowEndHour:     windowEnd,
		SearchHorizonDays: horizonDays,
		CalendarTimeout:   time.Duration(calendarTimeout) * time.Second,
	}
}

func (c *SchedulerConfig) Validate() error {
	if c.WindowStartHour >= c.WindowEndHour {
		return ErrInvalidPostingWindow
	}
	return nil
}
