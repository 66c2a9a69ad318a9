package model

import (
	"fmt"
	"time"
)

// Формат локального ключа времени: "YYYY-MM-DD|HH:mm".
// Ключ - каноническая идентичность позиции в расписании.
const timeKeyLayout = "2006-01-02|15:04"

// FormatTimeKey форматирует момент в локальный ключ времени
func FormatTimeKey(t time.Time) string {
	return t.Format(timeKeyLayout)
}

// ParseTimeKey разбирает локальный ключ времени в указанной тайм-зоне
func ParseTimeKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(timeKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time key %q: %w", key, err)
	}
	return t, nil
}

// DayKey возвращает дневную часть ключа ("YYYY-MM-DD")
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
