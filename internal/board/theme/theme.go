package theme

import (
	"image/color"
	"sync"
)

// Resolver разрешает символический токен цвета в конкретный цвет
type Resolver interface {
	Resolve(token string) color.Color
}

// Static тема из фиксированной таблицы токенов
type Static map[string]color.Color

// Resolve возвращает цвет токена либо нейтральный серый для неизвестного
func (s Static) Resolve(token string) color.Color {
	if c, ok := s[token]; ok {
		return c
	}
	return color.RGBA{200, 200, 200, 255}
}

// Default палитра доски по умолчанию
func Default() Static {
	return Static{
		"board.bg":         color.RGBA{245, 246, 248, 255},
		"board.text":       color.RGBA{80, 85, 90, 255},
		"day.header":       color.RGBA{230, 232, 236, 255},
		"day.placeholder":  color.RGBA{238, 239, 241, 255},
		"column.header":    color.RGBA{222, 226, 233, 255},
		"slot.empty":       color.RGBA{236, 244, 232, 255},
		"slot.blocked":     color.RGBA{158, 158, 158, 200},
		"slot.text":        color.RGBA{110, 115, 120, 255},
		"lesson.default":   color.RGBA{133, 193, 85, 220},
		"lesson.confirmed": color.RGBA{106, 168, 79, 255},
		"lesson.green":     color.RGBA{133, 193, 85, 220},
		"lesson.pink":      color.RGBA{255, 182, 193, 255},
		"lesson.blue":      color.RGBA{121, 168, 218, 255},
		"lesson.yellow":    color.RGBA{240, 219, 122, 255},
		"lesson.gray":      color.RGBA{200, 200, 200, 255},
		"lesson.text":      color.RGBA{20, 24, 28, 230},
		"highlight":        color.RGBA{255, 99, 71, 255},
	}
}

// Cache кеширует разрешённые токены. Тема не опрашивается: хост обязан
// явно вызвать Invalidate, когда тема сменилась.
type Cache struct {
	mu       sync.Mutex
	resolver Resolver
	cache    map[string]color.Color
}

// NewCache создаёт кеш поверх резолвера
func NewCache(resolver Resolver) *Cache {
	return &Cache{
		resolver: resolver,
		cache:    make(map[string]color.Color),
	}
}

// Resolve возвращает цвет токена, разрешая его не более одного раза
// до следующей инвалидации
func (c *Cache) Resolve(token string) color.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	if col, ok := c.cache[token]; ok {
		return col
	}
	col := c.resolver.Resolve(token)
	c.cache[token] = col
	return col
}

// Invalidate сбрасывает кеш после смены темы
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.cache = make(map[string]color.Color)
	c.mu.Unlock()
}

// SetResolver подменяет тему и сбрасывает кеш
func (c *Cache) SetResolver(resolver Resolver) {
	c.mu.Lock()
	c.resolver = resolver
	c.cache = make(map[string]color.Color)
	c.mu.Unlock()
}
