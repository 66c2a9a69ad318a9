package timegrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid() Config {
	return Config{
		Marks:       []string{"08:00", "09:00", "10:00", "11:00", "12:00"},
		SlotMinutes: 60,
		Location:    time.UTC,
	}
}

func TestSlotsForDay_PureFunctionOfDayAndConfig(t *testing.T) {
	grid := testGrid()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	first := grid.SlotsForDay(day)
	second := grid.SlotsForDay(day)

	require.Len(t, first, 5)
	assert.Equal(t, first, second)

	assert.Equal(t, "2026-03-02|08:00", first[0].Key)
	assert.Equal(t, 0, first[0].Row)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), first[0].Start)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), first[0].End)
}

func TestSlotsForDay_TimeOfInputIgnored(t *testing.T) {
	grid := testGrid()

	// День с временем и без дают одинаковые слоты
	midnight := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	afternoon := time.Date(2026, 3, 2, 15, 42, 7, 0, time.UTC)

	assert.Equal(t, grid.SlotsForDay(midnight), grid.SlotsForDay(afternoon))
}

func TestVisibleMarks_HiddenIntervalExcluded(t *testing.T) {
	grid := testGrid()
	grid.Hidden = []Interval{{From: "09:00", To: "11:00"}}

	// From включительно, To не включительно
	assert.Equal(t, []string{"08:00", "11:00", "12:00"}, grid.VisibleMarks())

	slots := grid.SlotsForDay(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.Len(t, slots, 3)
	assert.Equal(t, 1, slots[1].Row) // ряды перенумерованы без дыр
	assert.Equal(t, "11:00", slots[1].Mark)
}

func TestKeysForDays(t *testing.T) {
	grid := testGrid()
	days := []time.Time{
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	}

	keys := grid.KeysForDays(days)

	assert.Len(t, keys, 10)
	assert.Contains(t, keys, "2026-03-02|08:00")
	assert.Contains(t, keys, "2026-03-03|12:00")
}

func TestRowForTime(t *testing.T) {
	grid := testGrid()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	row, ok := grid.RowForTime(day.Add(10 * time.Hour))
	require.True(t, ok)
	assert.Equal(t, 2, row)

	// Момент между метками прижимается к метке сверху
	row, ok = grid.RowForTime(day.Add(10*time.Hour + 30*time.Minute))
	require.True(t, ok)
	assert.Equal(t, 2, row)

	// Раньше первой метки
	_, ok = grid.RowForTime(day.Add(6 * time.Hour))
	assert.False(t, ok)
}

func TestDefaultConfigMarks(t *testing.T) {
	grid := DefaultConfig()

	require.Len(t, grid.Marks, 14)
	assert.Equal(t, "07:00", grid.Marks[0])
	assert.Equal(t, "20:00", grid.Marks[len(grid.Marks)-1])
}
