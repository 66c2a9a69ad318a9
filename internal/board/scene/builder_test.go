package scene

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avtoclass/schedboard/internal/board/theme"
	"github.com/avtoclass/schedboard/internal/collab"
	"github.com/avtoclass/schedboard/internal/model"
	"github.com/avtoclass/schedboard/internal/timegrid"
)

func buildGrid() timegrid.Config {
	return timegrid.Config{
		Marks:       []string{"09:00", "10:00", "11:00", "12:00"},
		SlotMinutes: 60,
		Location:    time.UTC,
	}
}

func buildInput(day time.Time) Input {
	return Input{
		Days:         []time.Time{day},
		VisibleTiles: map[int]struct{}{0: {}},
		ItemsPerTile: 1,
		Instructors: []*model.Instructor{
			{ID: 1, Name: "Иванов П.С.", OrderA: 2, OrderB: 1, Vehicle: model.Vehicle{Plate: "А123ВС", Gearbox: model.GearboxManual}},
			{ID: 2, Name: "Петрова Н.А.", OrderA: 1, OrderB: 2, Vehicle: model.Vehicle{Plate: "В456ОР", Gearbox: model.GearboxAutomatic}},
		},
		Scheme:  model.OrderSchemeA,
		Grid:    buildGrid(),
		Theme:   theme.Default(),
		Measure: measureStub,
	}
}

func TestBuild_NonMaterializedDayIsStub(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	in := buildInput(day)
	in.Days = append(in.Days, day.AddDate(0, 0, 1))
	// Виден только первый тайл

	sc := Build(in)

	require.Len(t, sc.Days, 2)
	assert.True(t, sc.Days[0].Materialized)
	assert.NotEmpty(t, sc.Days[0].Columns)
	assert.False(t, sc.Days[1].Materialized)
	assert.Empty(t, sc.Days[1].Columns)
	assert.Equal(t, "2026-03-03", sc.Days[1].Key)
}

func TestBuild_InstructorsOrderedByScheme(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	in := buildInput(day)
	sc := Build(in)
	// Схема A: Петрова (OrderA=1) перед Ивановым (OrderA=2)
	assert.Equal(t, "Петрова Н.А.", sc.Days[0].Columns[0].Title)

	in.Scheme = model.OrderSchemeB
	sc = Build(in)
	assert.Equal(t, "Иванов П.С.", sc.Days[0].Columns[0].Title)

	// Исходный порядок входа не тронут
	assert.Equal(t, int64(1), in.Instructors[0].ID)
}

func TestBuild_PadColumnsAppended(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	in := buildInput(day)
	in.PadRows = 4

	sc := Build(in)

	cols := sc.Days[0].Columns
	require.Len(t, cols, 5) // 2 инструктора + 3 pad
	assert.Equal(t, ColumnCancel, cols[2].Kind)
	assert.Equal(t, "Отмены", cols[2].Title)
	assert.Equal(t, ColumnWaitlist, cols[3].Kind)
	assert.Equal(t, ColumnOverflow, cols[4].Kind)

	// У pad-колонок своё число строк и слоты без ключей
	assert.Equal(t, 4, cols[2].Rows)
	require.Len(t, cols[2].Slots, 4)
	assert.Empty(t, cols[2].Slots[0].Key)
	assert.Nil(t, cols[2].Instructor)
}

func TestBuild_SlotOverlappedByEventIsSkipped(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	in := buildInput(day)
	in.Reservations = []*model.Reservation{
		{ID: 101, InstructorID: 2, Start: day.Add(10 * time.Hour), End: day.Add(12 * time.Hour), StudentName: "Смирнова Ольга"},
	}

	sc := Build(in)

	// Колонка Петровой (первая по схеме A): слоты 10:00 и 11:00 накрыты занятием
	col := sc.Days[0].Columns[0]
	require.Equal(t, int64(2), col.Instructor.ID)
	keys := make([]string, 0, len(col.Slots))
	for _, s := range col.Slots {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"2026-03-02|09:00", "2026-03-02|12:00"}, keys)

	require.Len(t, col.Events, 1)
	card := col.Events[0]
	assert.Equal(t, int64(101), card.ID)
	assert.Equal(t, 1, card.Row)
	assert.Equal(t, 2, card.Span)
	assert.Equal(t, "10:00–12:00", card.TimeLabel)

	// У другой колонки все четыре слота на месте
	assert.Len(t, sc.Days[0].Columns[1].Slots, 4)
}

func TestBuild_BlockedSlotCarriesNoDraftColors(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	in := buildInput(day)
	blockedKey := "2026-03-02|09:00"
	in.Blocked = func(instructorID int64) map[string]struct{} {
		if instructorID == 1 {
			return map[string]struct{}{blockedKey: {}}
		}
		return nil
	}
	in.DraftColors = func(slotKey string) []string {
		return []string{"#e6194b"}
	}

	sc := Build(in)

	// Колонка Иванова вторая по схеме A
	col := sc.Days[0].Columns[1]
	require.Equal(t, int64(1), col.Instructor.ID)
	require.Len(t, col.Slots, 4)

	assert.True(t, col.Slots[0].Blocked)
	assert.Empty(t, col.Slots[0].DraftColors)

	assert.False(t, col.Slots[1].Blocked)
	assert.Equal(t, []string{"#e6194b"}, col.Slots[1].DraftColors)
	assert.Equal(t, collab.MakeSlotKey(1, day.Add(10*time.Hour)), col.Slots[1].DraftKey)
}

func TestBuild_CardColorTokens(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	th := theme.Default()

	cases := []struct {
		name string
		res  model.Reservation
		want color.Color
	}{
		{"explicit token", model.Reservation{ColorToken: "green"}, th.Resolve("lesson.green")},
		{"dotted token untouched", model.Reservation{ColorToken: "slot.blocked"}, th.Resolve("slot.blocked")},
		{"empty confirmed", model.Reservation{Confirmed: true}, th.Resolve("lesson.confirmed")},
		{"empty unconfirmed", model.Reservation{}, th.Resolve("lesson.default")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := buildInput(day)
			r := tc.res
			r.ID = 200
			r.InstructorID = 1
			r.Start = day.Add(9 * time.Hour)
			r.End = day.Add(10 * time.Hour)
			in.Reservations = []*model.Reservation{&r}

			sc := Build(in)
			col := sc.Days[0].Columns[1]
			require.Len(t, col.Events, 1)
			assert.Equal(t, tc.want, col.Events[0].Fill)
		})
	}
}

func TestBuild_CardTextWrappedWithinLimits(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	in := buildInput(day)
	in.NoteWidth = 150
	in.NoteLines = 2
	in.Reservations = []*model.Reservation{
		{
			ID: 101, InstructorID: 1,
			Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour),
			StudentName: "Смирнова Ольга",
			Notes:       "Вождение по городу маршрут два",
		},
	}

	sc := Build(in)

	card := sc.Days[0].Columns[1].Events[0]
	require.NotEmpty(t, card.Lines)
	assert.LessOrEqual(t, len(card.Lines), 2)
	for _, line := range card.Lines {
		assert.LessOrEqual(t, measureStub(line), 150.0)
	}
}

func TestBuild_HighlightPropagates(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	in := buildInput(day)
	in.HighlightedID = 101
	in.Reservations = []*model.Reservation{
		{ID: 101, InstructorID: 1, Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)},
		{ID: 102, InstructorID: 2, Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)},
	}

	sc := Build(in)

	assert.True(t, sc.Days[0].Columns[1].Events[0].Highlighted)
	assert.False(t, sc.Days[0].Columns[0].Events[0].Highlighted)
}

func TestBuild_PresenceColorsAttached(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	in := buildInput(day)
	in.Reservations = []*model.Reservation{
		{ID: 101, InstructorID: 1, Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)},
	}
	in.PresenceColors = func(reservationID int64) []string {
		if reservationID == 101 {
			return []string{"#e6194b", "#3cb44b"}
		}
		return nil
	}

	sc := Build(in)

	card := sc.Days[0].Columns[1].Events[0]
	assert.Equal(t, []string{"#e6194b", "#3cb44b"}, card.PresenceColors)
}

func TestBuild_NoInstructorsStillHasPadColumns(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	in := buildInput(day)
	in.Instructors = nil

	sc := Build(in)

	require.Len(t, sc.Days[0].Columns, 3)
	for _, col := range sc.Days[0].Columns {
		assert.NotEqual(t, ColumnInstructor, col.Kind)
	}
}
