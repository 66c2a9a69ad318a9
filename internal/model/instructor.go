package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Gearbox тип коробки передач учебного автомобиля
type Gearbox string

const (
	GearboxManual    Gearbox = "manual"
	GearboxAutomatic Gearbox = "automatic"
)

// Vehicle метаданные учебного автомобиля инструктора
type Vehicle struct {
	Plate   string  `json:"plate"`
	Gearbox Gearbox `json:"gearbox"`
}

// Instructor инструктор автошколы, одна колонка на доске расписания
type Instructor struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Sector  string  `json:"sector"` // район/площадка, где работает инструктор
	Vehicle Vehicle `json:"vehicle"`
	OrderA  int     `json:"order_a"` // позиция в схеме группировки "A"
	OrderB  int     `json:"order_b"` // позиция в схеме группировки "B"
}

// OrderScheme схема группировки дней, определяющая какой из двух порядков действует
type OrderScheme string

const (
	OrderSchemeA OrderScheme = "A"
	OrderSchemeB OrderScheme = "B"
)

// Order возвращает позицию инструктора для выбранной схемы
func (i *Instructor) Order(scheme OrderScheme) int {
	if scheme == OrderSchemeB {
		return i.OrderB
	}
	return i.OrderA
}

// ParseDualOrder разбирает строку двойного порядка "A" или "AxB".
// Одиночное число задаёт обе позиции сразу.
func ParseDualOrder(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), "x")
	switch len(parts) {
	case 1:
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, fmt.Errorf("parse order %q: %w", s, err)
		}
		return n, n, nil
	case 2:
		a, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, fmt.Errorf("parse order %q: %w", s, err)
		}
		b, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("parse order %q: %w", s, err)
		}
		return a, b, nil
	default:
		return 0, 0, fmt.Errorf("parse order %q: invalid format", s)
	}
}

// FormatDualOrder форматирует пару позиций обратно в строку "A" или "AxB"
func FormatDualOrder(a, b int) string {
	if a == b {
		return strconv.Itoa(a)
	}
	return strconv.Itoa(a) + "x" + strconv.Itoa(b)
}
