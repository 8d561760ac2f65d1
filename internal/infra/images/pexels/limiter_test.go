package pexels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWindowAdmitsUpToMax(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w := NewWindow(200, time.Hour)
	w.now = func() time.Time { return current }

	for i := 0; i < 200; i++ {
		require.True(t, w.Allow(), "admission %d should fit", i+1)
		w.Record()
		current = current.Add(time.Second)
	}
	require.False(t, w.Allow())
}

func TestWindowFreesSlotsAsAdmissionsAge(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w := NewWindow(2, time.Hour)
	w.now = func() time.Time { return current }

	w.Record()
	current = current.Add(30 * time.Minute)
	w.Record()
	require.False(t, w.Allow())

	// The first admission falls out of the window, the second stays.
	current = current.Add(31 * time.Minute)
	require.True(t, w.Allow())
	w.Record()
	require.False(t, w.Allow())
}

func TestWindowBoundaryIsExclusive(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w := NewWindow(1, time.Hour)
	w.now = func() time.Time { return current }

	w.Record()
	current = current.Add(time.Hour)
	require.True(t, w.Allow())
}
