package scene

import (
	"image/color"
	"sort"
	"strings"
	"time"

	"github.com/avtoclass/schedboard/internal/board/theme"
	"github.com/avtoclass/schedboard/internal/collab"
	"github.com/avtoclass/schedboard/internal/model"
	"github.com/avtoclass/schedboard/internal/timegrid"
)

// Число строк pad-колонок, отличное от сетки инструкторов
const DefaultPadRows = 6

// Input снапшоты данных для сборки сцены. Сборщик ничего не мутирует
// и не держит ссылок после возврата: одновременная (логически более
// поздняя) мутация источников не может испортить идущую сборку.
type Input struct {
	Days         []time.Time
	VisibleTiles map[int]struct{} // решение планировщика тайлов
	ItemsPerTile int

	Instructors  []*model.Instructor
	Scheme       model.OrderScheme
	Reservations []*model.Reservation
	Grid         timegrid.Config

	Blocked        func(instructorID int64) map[string]struct{}
	PresenceColors func(reservationID int64) []string
	DraftColors    func(slotKey string) []string

	Theme   theme.Resolver
	Measure func(s string) float64 // ширина строки в пикселях
	NoteWidth float64              // бюджет ширины текста карточки
	NoteLines int                  // бюджет строк текста карточки

	PadRows       int
	HighlightedID int64
	Zoom          float64
}

// Build собирает сцену для материализованных дней. Не материализованные
// дни получают только заголовок-заглушку.
func Build(in Input) *Scene {
	if in.ItemsPerTile <= 0 {
		in.ItemsPerTile = 1
	}
	if in.PadRows <= 0 {
		in.PadRows = DefaultPadRows
	}
	if in.NoteLines <= 0 {
		in.NoteLines = 2
	}
	if in.Zoom <= 0 {
		in.Zoom = 1
	}

	instructors := sortedInstructors(in.Instructors, in.Scheme)
	byInstructor := groupReservations(in.Reservations)

	sc := &Scene{
		Zoom:          in.Zoom,
		HighlightedID: in.HighlightedID,
	}
	for dayIndex, date := range in.Days {
		day := Day{
			Date: date,
			Key:  model.DayKey(date),
		}
		_, materialized := in.VisibleTiles[dayIndex/in.ItemsPerTile]
		day.Materialized = materialized
		if materialized {
			day.Columns = buildColumns(in, instructors, byInstructor, date)
		}
		sc.Days = append(sc.Days, day)
	}
	return sc
}

func buildColumns(in Input, instructors []*model.Instructor, byInstructor map[int64][]*model.Reservation, date time.Time) []Column {
	slots := in.Grid.SlotsForDay(date)
	columns := make([]Column, 0, len(instructors)+3)

	for _, inst := range instructors {
		events := dayEvents(byInstructor[inst.ID], date)
		col := Column{
			Kind:        ColumnInstructor,
			Instructor:  inst,
			Title:       inst.Name,
			Subtitle:    vehicleLabel(inst.Vehicle),
			Rows:        len(slots),
			Highlighted: in.HighlightedID != 0 && in.HighlightedID == inst.ID,
		}

		var blocked map[string]struct{}
		if in.Blocked != nil {
			blocked = in.Blocked(inst.ID)
		}

		for _, slot := range slots {
			// Слот, пересекающийся с уже назначенным занятием, не рисуется
			// как пустой: защита от двойного бронирования здесь визуальная
			if overlapsAny(events, slot.Start, slot.End) {
				continue
			}
			cell := SlotCell{
				Key:      slot.Key,
				DraftKey: collab.MakeSlotKey(inst.ID, slot.Start),
				Row:      slot.Row,
				Start:    slot.Start,
				End:      slot.End,
			}
			if _, ok := blocked[slot.Key]; ok {
				cell.Blocked = true
			} else if in.DraftColors != nil {
				cell.DraftColors = in.DraftColors(cell.DraftKey)
			}
			col.Slots = append(col.Slots, cell)
		}

		for _, r := range events {
			col.Events = append(col.Events, buildCard(in, r))
		}
		columns = append(columns, col)
	}

	// Фиксированные pad-колонки после инструкторов
	for _, pad := range []struct {
		kind  ColumnKind
		title string
	}{
		{ColumnCancel, "Отмены"},
		{ColumnWaitlist, "Ожидание"},
		{ColumnOverflow, "Резерв"},
	} {
		col := Column{
			Kind:  pad.kind,
			Title: pad.title,
			Rows:  in.PadRows,
		}
		for row := 0; row < in.PadRows; row++ {
			col.Slots = append(col.Slots, SlotCell{Row: row})
		}
		columns = append(columns, col)
	}
	return columns
}

// buildCard переводит занятие в отрисовочную карточку: разрешает цвет
// и переносит текст в пределах бюджета строк
func buildCard(in Input, r *model.Reservation) EventCard {
	row, ok := in.Grid.RowForTime(r.Start)
	if !ok {
		row = 0
	}
	span := 1
	if in.Grid.SlotMinutes > 0 {
		minutes := int(r.End.Sub(r.Start).Minutes())
		span = (minutes + in.Grid.SlotMinutes - 1) / in.Grid.SlotMinutes
		if span < 1 {
			span = 1
		}
	}

	card := EventCard{
		ID:           r.ID,
		InstructorID: r.InstructorID,
		Row:          row,
		Span:         span,
		Start:        r.Start,
		End:          r.End,
		Fill:         resolveFill(in.Theme, r),
		TimeLabel:    r.Start.Format("15:04") + "–" + r.End.Format("15:04"),
		Confirmed:    r.Confirmed,
		Favorite:     r.Favorite,
		Important:    r.Important,
		Highlighted:  in.HighlightedID != 0 && in.HighlightedID == r.ID,
	}
	if in.PresenceColors != nil {
		card.PresenceColors = in.PresenceColors(r.ID)
	}
	if in.Measure != nil {
		text := strings.TrimSpace(r.StudentName + " " + r.Notes)
		card.Lines = WrapText(text, in.NoteWidth, in.NoteLines, in.Measure)
	}
	return card
}

func resolveFill(resolver theme.Resolver, r *model.Reservation) color.Color {
	if resolver == nil {
		return color.RGBA{200, 200, 200, 255}
	}
	token := r.ColorToken
	switch {
	case token == "" && r.Confirmed:
		token = "lesson.confirmed"
	case token == "":
		token = "lesson.default"
	case !strings.Contains(token, "."):
		token = "lesson." + token
	}
	return resolver.Resolve(token)
}

// sortedInstructors копирует и сортирует инструкторов по действующей схеме
func sortedInstructors(instructors []*model.Instructor, scheme model.OrderScheme) []*model.Instructor {
	out := make([]*model.Instructor, len(instructors))
	copy(out, instructors)
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := out[i].Order(scheme), out[j].Order(scheme)
		if oi != oj {
			return oi < oj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func groupReservations(reservations []*model.Reservation) map[int64][]*model.Reservation {
	grouped := make(map[int64][]*model.Reservation)
	for _, r := range reservations {
		grouped[r.InstructorID] = append(grouped[r.InstructorID], r)
	}
	for _, list := range grouped {
		sort.Slice(list, func(i, j int) bool {
			if !list[i].Start.Equal(list[j].Start) {
				return list[i].Start.Before(list[j].Start)
			}
			return list[i].ID < list[j].ID
		})
	}
	return grouped
}

func dayEvents(reservations []*model.Reservation, date time.Time) []*model.Reservation {
	var out []*model.Reservation
	for _, r := range reservations {
		if r.SameDay(date) {
			out = append(out, r)
		}
	}
	return out
}

func overlapsAny(events []*model.Reservation, start, end time.Time) bool {
	for _, r := range events {
		if r.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func vehicleLabel(v model.Vehicle) string {
	if v.Plate == "" {
		return ""
	}
	switch v.Gearbox {
	case model.GearboxAutomatic:
		return v.Plate + " · АКПП"
	case model.GearboxManual:
		return v.Plate + " · МКПП"
	default:
		return v.Plate
	}
}
