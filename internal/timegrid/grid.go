package timegrid

import (
	"fmt"
	"time"

	"github.com/avtoclass/schedboard/internal/model"
)

// Interval скрытый интервал рабочего дня, метки внутри него не попадают в сетку.
// Границы в формате "HH:mm", From включительно, To не включительно.
type Interval struct {
	From string
	To   string
}

// Config каноническая сетка дня: метки времени, скрытые интервалы,
// длительность слота. Набор слотов дня - чистая функция дня и этой конфигурации.
type Config struct {
	Marks       []string // метки "HH:mm" в порядке возрастания
	Hidden      []Interval
	SlotMinutes int
	Location    *time.Location
}

// Slot один бронируемый интервал дня
type Slot struct {
	Key   string // локальный ключ времени "YYYY-MM-DD|HH:mm"
	Mark  string // исходная метка "HH:mm"
	Row   int    // позиция в сетке дня
	Start time.Time
	End   time.Time
}

// DefaultConfig рабочий день 07:00-21:00, часовые слоты
func DefaultConfig() Config {
	marks := make([]string, 0, 14)
	for h := 7; h < 21; h++ {
		marks = append(marks, formatMark(h, 0))
	}
	return Config{
		Marks:       marks,
		SlotMinutes: 60,
		Location:    time.Local,
	}
}

// VisibleMarks возвращает метки за вычетом скрытых интервалов
func (c Config) VisibleMarks() []string {
	marks := make([]string, 0, len(c.Marks))
	for _, mark := range c.Marks {
		if !c.hidden(mark) {
			marks = append(marks, mark)
		}
	}
	return marks
}

// SlotsForDay генерирует слоты указанного дня. Результат зависит только
// от дня и конфигурации сетки.
func (c Config) SlotsForDay(day time.Time) []Slot {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	marks := c.VisibleMarks()
	slots := make([]Slot, 0, len(marks))
	for row, mark := range marks {
		h, m, ok := parseMark(mark)
		if !ok {
			continue
		}
		start := midnight.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
		slots = append(slots, Slot{
			Key:   model.FormatTimeKey(start),
			Mark:  mark,
			Row:   row,
			Start: start,
			End:   start.Add(time.Duration(c.SlotMinutes) * time.Minute),
		})
	}
	return slots
}

// KeysForDays собирает множество всех ключей слотов за набор дней.
// Используется как ограничитель при развороте REPEAT-правил.
func (c Config) KeysForDays(days []time.Time) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, day := range days {
		for _, slot := range c.SlotsForDay(day) {
			keys[slot.Key] = struct{}{}
		}
	}
	return keys
}

// RowForTime возвращает позицию метки, ближайшей сверху к моменту t.
// Второй результат false, если момент раньше первой метки.
func (c Config) RowForTime(t time.Time) (int, bool) {
	minutes := t.Hour()*60 + t.Minute()
	row := -1
	for i, mark := range c.VisibleMarks() {
		h, m, ok := parseMark(mark)
		if !ok {
			continue
		}
		if h*60+m <= minutes {
			row = i
		}
	}
	if row < 0 {
		return 0, false
	}
	return row, true
}

// hidden проверяет, попадает ли метка в скрытый интервал
func (c Config) hidden(mark string) bool {
	for _, iv := range c.Hidden {
		if iv.From <= mark && mark < iv.To {
			return true
		}
	}
	return false
}

func formatMark(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}

func parseMark(mark string) (int, int, bool) {
	if len(mark) != 5 || mark[2] != ':' {
		return 0, 0, false
	}
	h := int(mark[0]-'0')*10 + int(mark[1]-'0')
	m := int(mark[3]-'0')*10 + int(mark[4]-'0')
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
