package tile

import (
	"math"
	"sort"
	"time"
)

// directionEpsilon минимальный сдвиг вьюпорта в пикселях, меняющий
// направление движения. Субпиксельный дребезг направление не трогает.
const directionEpsilon = 0.5

// Config настройки виртуализации тайлов
type Config struct {
	ItemsPerTile  int           // дней в одном тайле
	BaseOverscan  int           // запас тайлов в покое
	PanOverscan   int           // запас тайлов во время панорамирования
	IdlePrefetch  int           // упреждающая загрузка в покое
	PanPrefetch   int           // упреждающая загрузка при панорамировании
	KeepAlive     time.Duration // сколько держать тайл вне активного окна
	MaxCacheTiles int
}

// DefaultConfig разумные значения для доски с дневными тайлами
func DefaultConfig() Config {
	return Config{
		ItemsPerTile:  1,
		BaseOverscan:  1,
		PanOverscan:   2,
		IdlePrefetch:  1,
		PanPrefetch:   4,
		KeepAlive:     30 * time.Second,
		MaxCacheTiles: 30,
	}
}

// Window решает, какие тайлы материализовать в текущем кадре.
// Чистая функция входов и внутреннего кеша: ни сети, ни ввода-вывода.
// Неудачная конфигурация (prefetch больше числа тайлов) лишь вырождается
// в "материализовать всё".
type Window struct {
	cfg Config

	lastTotal     int
	lastItemWidth float64
	lastPerTile   int
	lastLeft      float64
	hasLast       bool
	direction     int // -1 влево, 1 вправо, 0 неизвестно

	stamps map[int]time.Time
}

// NewWindow создаёт планировщик тайлов
func NewWindow(cfg Config) *Window {
	if cfg.ItemsPerTile <= 0 {
		cfg.ItemsPerTile = 1
	}
	return &Window{
		cfg:    cfg,
		stamps: make(map[int]time.Time),
	}
}

// Visible возвращает множество индексов тайлов, которые должны быть
// материализованы в этом кадре: активное окно плюс ещё тёплые тайлы кеша.
func (w *Window) Visible(totalItems int, itemWidth, viewportLeft, viewportWidth float64, interacting bool, now time.Time) map[int]struct{} {
	if totalItems <= 0 || itemWidth <= 0 {
		w.reset(totalItems, itemWidth)
		return map[int]struct{}{}
	}

	// Смена геометрии обесценивает запомненные позиции
	if w.lastTotal != totalItems || w.lastItemWidth != itemWidth || w.lastPerTile != w.cfg.ItemsPerTile {
		w.reset(totalItems, itemWidth)
	}

	if w.hasLast {
		delta := viewportLeft - w.lastLeft
		if math.Abs(delta) > directionEpsilon {
			if delta > 0 {
				w.direction = 1
			} else {
				w.direction = -1
			}
		}
	}
	w.lastLeft = viewportLeft
	w.hasLast = true

	numTiles := (totalItems + w.cfg.ItemsPerTile - 1) / w.cfg.ItemsPerTile
	tileWidth := itemWidth * float64(w.cfg.ItemsPerTile)

	first := int(math.Floor(viewportLeft / tileWidth))
	last := int(math.Floor((viewportLeft + math.Max(viewportWidth, 1) - 1) / tileWidth))

	overscan := w.cfg.BaseOverscan
	prefetch := w.cfg.IdlePrefetch
	if interacting {
		overscan = w.cfg.PanOverscan
		prefetch = w.cfg.PanPrefetch
	}
	first -= overscan
	last += overscan

	// Асимметричное упреждение по направлению движения: больше вперёд,
	// вдвое меньше назад
	switch w.direction {
	case 1:
		last += prefetch
		first -= prefetch / 2
	case -1:
		first -= prefetch
		last += prefetch / 2
	}

	first = clamp(first, 0, numTiles-1)
	last = clamp(last, 0, numTiles-1)
	activeSize := last - first + 1

	for idx := first; idx <= last; idx++ {
		w.stamps[idx] = now
	}

	// Выселение остывших тайлов вне активного окна
	for idx, stamp := range w.stamps {
		if idx >= first && idx <= last {
			continue
		}
		if now.Sub(stamp) > w.cfg.KeepAlive {
			delete(w.stamps, idx)
		}
	}

	// Жёсткий предел размера кеша: сначала уходят самые давние тайлы
	// вне активного окна, само окно не выселяется никогда
	limit := w.cfg.MaxCacheTiles
	if limit < activeSize {
		limit = activeSize
	}
	if limit > 0 && len(w.stamps) > limit {
		type staleTile struct {
			idx   int
			stamp time.Time
		}
		var outside []staleTile
		for idx, stamp := range w.stamps {
			if idx < first || idx > last {
				outside = append(outside, staleTile{idx, stamp})
			}
		}
		sort.Slice(outside, func(i, j int) bool {
			if !outside[i].stamp.Equal(outside[j].stamp) {
				return outside[i].stamp.Before(outside[j].stamp)
			}
			return outside[i].idx < outside[j].idx
		})
		for _, tile := range outside {
			if len(w.stamps) <= limit {
				break
			}
			delete(w.stamps, tile.idx)
		}
	}

	visible := make(map[int]struct{}, len(w.stamps))
	for idx := range w.stamps {
		visible[idx] = struct{}{}
	}
	return visible
}

// TileFor возвращает индекс тайла для элемента
func (w *Window) TileFor(item int) int {
	return item / w.cfg.ItemsPerTile
}

func (w *Window) reset(totalItems int, itemWidth float64) {
	w.lastTotal = totalItems
	w.lastItemWidth = itemWidth
	w.lastPerTile = w.cfg.ItemsPerTile
	w.hasLast = false
	w.direction = 0
	w.stamps = make(map[int]time.Time)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
