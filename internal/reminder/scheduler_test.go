package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2024-06-14 is a Friday.
func fridayAt(hour, minute int) time.Time {
	return time.Date(2024, 6, 14, hour, minute, 0, 0, time.UTC)
}

func TestWindowContains(t *testing.T) {
	w := DefaultWindow()

	assert.False(t, w.Contains(fridayAt(9, 29)))
	assert.True(t, w.Contains(fridayAt(9, 30)))
	assert.True(t, w.Contains(fridayAt(23, 59)))

	// 2024-06-16 is a Sunday, the default day off.
	sunday := time.Date(2024, 6, 16, 12, 0, 0, 0, time.UTC)
	assert.False(t, w.Contains(sunday))
}

func TestIsDue(t *testing.T) {
	w := DefaultWindow()
	now := fridayAt(10, 0)

	// Never sent before.
	assert.True(t, IsDue(now, "", w))

	// Sent yesterday.
	assert.True(t, IsDue(now, "2024-06-13", w))

	// Already sent today: suppressed until the date changes.
	assert.False(t, IsDue(now, "2024-06-14", w))

	// Next day inside the window it is due again.
	saturday := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	assert.True(t, IsDue(saturday, "2024-06-14", w))
}

func TestIsDueOutsideWindow(t *testing.T) {
	w := DefaultWindow()

	// Before the cutoff, even if never sent.
	assert.False(t, IsDue(fridayAt(8, 0), "", w))

	// On the day off.
	sunday := time.Date(2024, 6, 16, 12, 0, 0, 0, time.UTC)
	assert.False(t, IsDue(sunday, "", w))
}

func TestCustomWindow(t *testing.T) {
	w := Window{DayOff: time.Friday, Hour: 14, Minute: 0}

	assert.False(t, IsDue(fridayAt(15, 0), "", w))

	thursday := time.Date(2024, 6, 13, 15, 0, 0, 0, time.UTC)
	assert.True(t, IsDue(thursday, "", w))
	assert.False(t, IsDue(thursday.Add(-2*time.Hour), "", w))
}
