package model

import "time"

// BlackoutKind вид записи о недоступности
type BlackoutKind string

const (
	BlackoutSingle BlackoutKind = "single"
	BlackoutRepeat BlackoutKind = "repeat"
)

// Blackout помечает слоты инструктора недоступными: либо один локальный ключ,
// либо правило REPEAT (первый/последний момент + шаг в днях).
type Blackout struct {
	ID           int64        `json:"id"`
	InstructorID int64        `json:"instructor_id"`
	Kind         BlackoutKind `json:"kind"`
	Key          string       `json:"key"`   // для single
	Start        time.Time    `json:"start"` // для repeat
	End          time.Time    `json:"end"`
	StepDays     int          `json:"step_days"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Expand разворачивает запись в набор локальных ключей времени.
// Непустой allowed ограничивает результат: ключи вне набора не попадают в выдачу,
// и именно он ограничивает обход правил с очень большим диапазоном.
func (b *Blackout) Expand(allowed map[string]struct{}) []string {
	permitted := func(key string) bool {
		if allowed == nil {
			return true
		}
		_, ok := allowed[key]
		return ok
	}

	switch b.Kind {
	case BlackoutSingle:
		if b.Key != "" && permitted(b.Key) {
			return []string{b.Key}
		}
		return nil
	case BlackoutRepeat:
		if b.StepDays <= 0 {
			return nil
		}
		var keys []string
		for cur := b.Start; !cur.After(b.End); cur = cur.AddDate(0, 0, b.StepDays) {
			if key := FormatTimeKey(cur); permitted(key) {
				keys = append(keys, key)
			}
		}
		return keys
	default:
		return nil
	}
}
