// Package timeacct computes study and break durations from timestamps.
// Nothing here reads a clock: callers pass now explicitly.
package timeacct

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ElapsedStudySeconds returns whole seconds of study time since sessionStart,
// excluding completed pauses and the pause in progress. Clamped at zero.
func ElapsedStudySeconds(now, sessionStart time.Time, accumulatedPause time.Duration, currentPauseStart time.Time, state State) int64 {
	if state == StateIdle || sessionStart.IsZero() {
		return 0
	}

	totalElapsed := now.Sub(sessionStart)
	totalPaused := accumulatedPause
	if state == StatePaused && !currentPauseStart.IsZero() {
		totalPaused += now.Sub(currentPauseStart)
	}

	study := totalElapsed - totalPaused
	if study <= 0 {
		return 0
	}
	return int64(study / time.Second)
}

// CurrentBreakSeconds returns whole seconds of the break in progress.
func CurrentBreakSeconds(now, currentBreakStart time.Time, state State) int64 {
	if state != StatePaused || currentBreakStart.IsZero() {
		return 0
	}
	return wholeSeconds(now.Sub(currentBreakStart))
}

// TotalBreakSeconds adds the break in progress to the completed ones.
func TotalBreakSeconds(accumulatedBreakSeconds int64, now, currentBreakStart time.Time, state State) int64 {
	return accumulatedBreakSeconds + CurrentBreakSeconds(now, currentBreakStart, state)
}

// IntervalSeconds converts a completed pause interval into break seconds.
func IntervalSeconds(d time.Duration) int64 {
	return wholeSeconds(d)
}

func wholeSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

// FormatDuration renders seconds as MM:SS, or H:MM:SS from one hour up.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// ParseDuration is the inverse of FormatDuration.
func ParseDuration(s string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q: want MM:SS or H:MM:SS", s)
	}

	values := make([]int64, len(parts))
	for i, part := range parts {
		if part == "" {
			return 0, fmt.Errorf("invalid duration %q: empty field", s)
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid duration %q: bad field %q", s, part)
		}
		values[i] = v
	}

	if len(values) == 2 {
		minutes, secs := values[0], values[1]
		if secs >= 60 {
			return 0, fmt.Errorf("invalid duration %q: seconds out of range", s)
		}
		return minutes*60 + secs, nil
	}

	hours, minutes, secs := values[0], values[1], values[2]
	if minutes >= 60 || secs >= 60 {
		return 0, fmt.Errorf("invalid duration %q: field out of range", s)
	}
	return hours*3600 + minutes*60 + secs, nil
}
