package scene

import (
	"image/color"
	"time"

	"github.com/avtoclass/schedboard/internal/model"
)

// ColumnKind вид колонки на доске
type ColumnKind string

const (
	ColumnInstructor ColumnKind = "instructor"
	ColumnCancel     ColumnKind = "cancel"    // отмены
	ColumnWaitlist   ColumnKind = "waitlist"  // лист ожидания
	ColumnOverflow   ColumnKind = "overflow"  // боковой перелив
)

// SlotCell пустой слот колонки, готовый к отрисовке
type SlotCell struct {
	Key         string // локальный ключ времени, пустой у pad-колонок
	DraftKey    string // ключ слота черновика "instructorId|ISO-start"
	Row         int
	Start       time.Time
	End         time.Time
	Blocked     bool
	DraftColors []string // цвета колец черновиков, уже ограничены максимумом
}

// EventCard занятие, переведённое в отрисовочное представление:
// цвет уже разрешён темой, текст уже перенесён по строкам
type EventCard struct {
	ID             int64
	InstructorID   int64
	Row            int
	Span           int
	Start          time.Time
	End            time.Time
	Fill           color.Color
	TimeLabel      string
	Lines          []string
	PresenceColors []string
	Confirmed      bool
	Favorite       bool
	Important      bool
	Highlighted    bool
}

// Column одна колонка дня
type Column struct {
	Kind        ColumnKind
	Instructor  *model.Instructor // nil для pad-колонок
	Title       string
	Subtitle    string // номер и коробка автомобиля
	Rows        int    // число строк сетки колонки
	Slots       []SlotCell
	Events      []EventCard
	Highlighted bool
}

// Day один день доски. Не материализованный день несёт только заголовок
// и рисуется лёгкой заглушкой.
type Day struct {
	Date         time.Time
	Key          string // "YYYY-MM-DD"
	Materialized bool
	Columns      []Column
}

// Scene полностью разрешённое описание досок видимых дней.
// Сборщик читает только снапшоты, сцена после сборки неизменяема.
type Scene struct {
	Days          []Day
	Zoom          float64
	HighlightedID int64
}
