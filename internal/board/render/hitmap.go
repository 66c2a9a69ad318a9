package render

import (
	"image"
	"time"

	"github.com/avtoclass/schedboard/internal/board/scene"
)

// HitKind вид интерактивного прямоугольника
type HitKind string

const (
	HitEmptySlot    HitKind = "empty-slot"
	HitReservation  HitKind = "reservation"
	HitColumnHeader HitKind = "column-header"
)

// HitEntry прямоугольник хит-карты с обратными ссылками на исходные записи.
// Координаты в системе доски, не вьюпорта.
type HitEntry struct {
	Bounds        image.Rectangle
	Kind          HitKind
	Day           string
	ColumnKind    scene.ColumnKind
	InstructorID  int64
	ReservationID int64
	SlotKey       string // локальный ключ времени слота
	Start         time.Time
	End           time.Time
}

// HitMap упорядоченный список нарисованных прямоугольников. Пересобирается
// при каждой отрисовке, никогда не переживает кадр.
type HitMap []HitEntry

// Resolve находит верхний прямоугольник под точкой: список сканируется
// с конца, при наложении побеждает нарисованный последним.
// Промах мимо всех прямоугольников - снятие выделения, не ошибка.
func (m HitMap) Resolve(x, y int) (HitEntry, bool) {
	pt := image.Pt(x, y)
	for i := len(m) - 1; i >= 0; i-- {
		if pt.In(m[i].Bounds) {
			return m[i], true
		}
	}
	return HitEntry{}, false
}
