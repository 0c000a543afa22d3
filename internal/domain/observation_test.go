package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })
}

func fullSample(span int) Sample {
	first, _ := HistoryYears(span)
	s := Sample{Month: 6, Day: 1}
	for i := range span {
		s.Observations = append(s.Observations, obs(first+i, 25))
	}
	return s
}

func TestSample_Validate(t *testing.T) {
	freezeClock(t, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))

	t.Run("complete", func(t *testing.T) {
		s := fullSample(30)
		require.NoError(t, s.Validate(30))
		assert.Equal(t, 1996, s.Observations[0].Year)
		assert.Equal(t, 2025, s.Observations[29].Year)
	})

	t.Run("short", func(t *testing.T) {
		s := fullSample(30)
		s.Observations = s.Observations[1:]
		require.ErrorIs(t, s.Validate(30), ErrDataUnavailable)
	})

	t.Run("gap", func(t *testing.T) {
		s := fullSample(5)
		s.Observations[2].Year++
		require.ErrorIs(t, s.Validate(5), ErrDataUnavailable)
	})

	t.Run("negative rain", func(t *testing.T) {
		s := fullSample(5)
		s.Observations[1].RainMM = -0.1
		require.ErrorIs(t, s.Validate(5), ErrDataUnavailable)
	})

	t.Run("NaN", func(t *testing.T) {
		s := fullSample(5)
		s.Observations[3].Humidex = math.NaN()
		require.ErrorIs(t, s.Validate(5), ErrDataUnavailable)
	})
}

func TestValidateCalendarDay(t *testing.T) {
	valid := [][2]int{{1, 1}, {2, 29}, {4, 30}, {12, 31}}
	for _, md := range valid {
		assert.NoError(t, ValidateCalendarDay(md[0], md[1]), "%v", md)
	}

	invalid := [][2]int{{0, 1}, {13, 1}, {2, 30}, {4, 31}, {6, 0}}
	for _, md := range invalid {
		assert.ErrorIs(t, ValidateCalendarDay(md[0], md[1]), ErrDataUnavailable, "%v", md)
	}
}
