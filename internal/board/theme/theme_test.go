package theme

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

// countingResolver считает фактические разрешения токенов
type countingResolver struct {
	calls int
	table Static
}

func (r *countingResolver) Resolve(token string) color.Color {
	r.calls++
	return r.table.Resolve(token)
}

func TestStatic_UnknownTokenFallsBackToGray(t *testing.T) {
	th := Default()

	assert.Equal(t, color.RGBA{106, 168, 79, 255}, th.Resolve("lesson.confirmed"))
	assert.Equal(t, color.RGBA{200, 200, 200, 255}, th.Resolve("lesson.nonexistent"))
}

func TestCache_ResolvesTokenOnce(t *testing.T) {
	r := &countingResolver{table: Default()}
	c := NewCache(r)

	first := c.Resolve("lesson.green")
	second := c.Resolve("lesson.green")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.calls)
}

func TestCache_InvalidateForcesReresolve(t *testing.T) {
	r := &countingResolver{table: Default()}
	c := NewCache(r)

	c.Resolve("lesson.green")
	c.Invalidate()
	c.Resolve("lesson.green")

	// Тема не опрашивается сама: только явная инвалидация
	assert.Equal(t, 2, r.calls)
}

func TestCache_SetResolverSwitchesTheme(t *testing.T) {
	c := NewCache(Static{"board.bg": color.RGBA{0, 0, 0, 255}})

	assert.Equal(t, color.RGBA{0, 0, 0, 255}, c.Resolve("board.bg"))

	c.SetResolver(Static{"board.bg": color.RGBA{255, 255, 255, 255}})
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c.Resolve("board.bg"))
}
