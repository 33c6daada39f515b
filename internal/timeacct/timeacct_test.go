package timeacct

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return t0.Add(time.Duration(seconds * float64(time.Second)))
}

func TestElapsedStudySecondsIdle(t *testing.T) {
	assert.Equal(t, int64(0), ElapsedStudySeconds(at(100), t0, 0, time.Time{}, StateIdle))
	assert.Equal(t, int64(0), ElapsedStudySeconds(at(100), time.Time{}, 0, time.Time{}, StateRunning))
}

func TestElapsedStudySecondsRunning(t *testing.T) {
	assert.Equal(t, int64(65), ElapsedStudySeconds(at(65), t0, 0, time.Time{}, StateRunning))
	assert.Equal(t, int64(65), ElapsedStudySeconds(at(65.999), t0, 0, time.Time{}, StateRunning))
}

func TestElapsedStudySecondsClockSkew(t *testing.T) {
	assert.Equal(t, int64(0), ElapsedStudySeconds(at(-30), t0, 0, time.Time{}, StateRunning))
	assert.Equal(t, int64(0), ElapsedStudySeconds(at(10), t0, 20*time.Second, time.Time{}, StateRunning))
}

func TestElapsedStudySecondsMonotonic(t *testing.T) {
	prev := int64(-1)
	for ms := 0; ms <= 10_000; ms += 137 {
		got := ElapsedStudySeconds(t0.Add(time.Duration(ms)*time.Millisecond), t0, 0, time.Time{}, StateRunning)
		require.GreaterOrEqual(t, got, prev, "at %dms", ms)
		prev = got
	}
}

func TestPauseAndBreak(t *testing.T) {
	// paused at 10s, now 25s
	pauseStart := at(10)
	assert.Equal(t, int64(10), ElapsedStudySeconds(at(25), t0, 0, pauseStart, StatePaused))
	assert.Equal(t, int64(15), CurrentBreakSeconds(at(25), pauseStart, StatePaused))
	assert.Equal(t, int64(0), CurrentBreakSeconds(at(25), pauseStart, StateRunning))
	assert.Equal(t, int64(45), TotalBreakSeconds(30, at(25), pauseStart, StatePaused))
	assert.Equal(t, int64(30), TotalBreakSeconds(30, at(25), time.Time{}, StateRunning))
}

func TestCurrentBreakSecondsSkew(t *testing.T) {
	assert.Equal(t, int64(0), CurrentBreakSeconds(at(5), at(10), StatePaused))
}

func TestScenarioPauseResume(t *testing.T) {
	// start 0, pause 10, resume 40, check at 50
	pause := at(40).Sub(at(10))
	// 10 before the pause plus 10 after resuming
	assert.Equal(t, int64(20), ElapsedStudySeconds(at(50), t0, pause, time.Time{}, StateRunning))
	assert.Equal(t, int64(30), IntervalSeconds(pause))
}

func TestFormatDuration(t *testing.T) {
	cases := map[int64]string{
		0:     "00:00",
		5:     "00:05",
		65:    "01:05",
		3599:  "59:59",
		3600:  "1:00:00",
		3661:  "1:01:01",
		36000: "10:00:00",
		-3:    "00:00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatDuration(in), "seconds=%d", in)
	}
}

func TestParseDuration(t *testing.T) {
	got, err := ParseDuration("1:01:01")
	require.NoError(t, err)
	assert.Equal(t, int64(3661), got)

	got, err = ParseDuration("02:05")
	require.NoError(t, err)
	assert.Equal(t, int64(125), got)

	for _, bad := range []string{"", "12", "1:2:3:4", "aa:10", "01:60", "1:60:00", "-1:00", "1::00"} {
		_, err := ParseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for s := int64(0); s < 20_000; s += 7 {
		formatted := FormatDuration(s)
		parsed, err := ParseDuration(formatted)
		require.NoError(t, err, formatted)
		require.Equal(t, formatted, FormatDuration(parsed))
	}
}
