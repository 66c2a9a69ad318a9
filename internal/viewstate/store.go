package viewstate

import "sync"

// Границы масштаба в процентах
const (
	MinZoomPercent     = 50
	MaxZoomPercent     = 200
	DefaultZoomPercent = 100
)

// Store хранит позиции прокрутки по ключам группировки (обычно месяц)
// и предпочтение масштаба между сеансами доски. Лежит вне границы
// корректности ядра: потеря значений безопасна.
type Store struct {
	mu     sync.RWMutex
	scroll map[string]float64
	zoom   int
}

// NewStore создаёт хранилище с масштабом по умолчанию
func NewStore() *Store {
	return &Store{
		scroll: make(map[string]float64),
		zoom:   DefaultZoomPercent,
	}
}

// Scroll возвращает сохранённую позицию прокрутки для ключа группировки
func (s *Store) Scroll(groupKey string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.scroll[groupKey]
	return pos, ok
}

// SetScroll сохраняет позицию прокрутки
func (s *Store) SetScroll(groupKey string, pos float64) {
	s.mu.Lock()
	s.scroll[groupKey] = pos
	s.mu.Unlock()
}

// Zoom текущий масштаб в процентах
func (s *Store) Zoom() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

// ZoomFactor масштаб как множитель для движка отрисовки
func (s *Store) ZoomFactor() float64 {
	return float64(s.Zoom()) / 100.0
}

// SetZoom сохраняет масштаб, обрезая его до допустимых границ
func (s *Store) SetZoom(percent int) {
	if percent < MinZoomPercent {
		percent = MinZoomPercent
	}
	if percent > MaxZoomPercent {
		percent = MaxZoomPercent
	}
	s.mu.Lock()
	s.zoom = percent
	s.mu.Unlock()
}

// Clear очищает все сохранённые позиции
func (s *Store) Clear() {
	s.mu.Lock()
	s.scroll = make(map[string]float64)
	s.zoom = DefaultZoomPercent
	s.mu.Unlock()
}
