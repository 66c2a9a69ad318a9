package board

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/avtoclass/schedboard/internal/board/render"
	"github.com/avtoclass/schedboard/internal/board/scene"
	"go.uber.org/zap"
)

const (
	// defaultFrame период кадра
	defaultFrame = 16 * time.Millisecond
	// minViewportDelta сдвиг вьюпорта меньше порога игнорируется,
	// чтобы медленное панорамирование не гоняло ре-виртуализацию
	minViewportDelta = 2
)

// Callbacks реакции на активацию объектов доски указателем
type Callbacks struct {
	OnSlotActivate        func(instructorID int64, start, end time.Time)
	OnReservationActivate func(reservationID int64)
	OnDeselect            func()
}

// Loop покадровый цикл доски: одна горутина-владелец отрисовки.
// Любое число запросов перерисовки внутри кадра схлопывается в один
// проход растеризации в конце кадра; вьюпорт также семплируется не чаще
// раза за кадр.
type Loop struct {
	engine    *render.Engine
	build     func() *scene.Scene
	onFrame   func(image.Image, render.HitMap)
	callbacks Callbacks
	frame     time.Duration
	logger    *zap.Logger

	mu       sync.Mutex
	viewport image.Rectangle
	pending  *image.Rectangle
	hitmap   render.HitMap

	dirty     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop создаёт цикл. build собирает сцену из снапшотов владельца данных,
// onFrame получает результат каждой отрисовки.
func NewLoop(engine *render.Engine, build func() *scene.Scene, onFrame func(image.Image, render.HitMap), callbacks Callbacks, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		engine:    engine,
		build:     build,
		onFrame:   onFrame,
		callbacks: callbacks,
		frame:     defaultFrame,
		logger:    logger,
		dirty:     make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Invalidate запрашивает перерисовку. Сколько угодно вызовов до конца
// кадра дают ровно один проход растеризации.
func (l *Loop) Invalidate() {
	select {
	case l.dirty <- struct{}{}:
	default:
	}
}

// SetViewport задаёт видимую область доски. Применяется не чаще раза
// за кадр, субпороговые сдвиги отбрасываются.
func (l *Loop) SetViewport(viewport image.Rectangle) {
	l.mu.Lock()
	l.pending = &viewport
	l.mu.Unlock()
}

// Viewport текущая применённая область
func (l *Loop) Viewport() image.Rectangle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.viewport
}

// Pointer разрешает клик по координатам доски через хит-карту последнего
// кадра. Промах мимо всех прямоугольников - снятие выделения.
func (l *Loop) Pointer(x, y int) {
	l.mu.Lock()
	hitmap := l.hitmap
	l.mu.Unlock()

	entry, ok := hitmap.Resolve(x, y)
	if !ok {
		if l.callbacks.OnDeselect != nil {
			l.callbacks.OnDeselect()
		}
		return
	}

	switch entry.Kind {
	case render.HitEmptySlot:
		if entry.InstructorID != 0 && l.callbacks.OnSlotActivate != nil {
			l.callbacks.OnSlotActivate(entry.InstructorID, entry.Start, entry.End)
		}
	case render.HitReservation:
		if l.callbacks.OnReservationActivate != nil {
			l.callbacks.OnReservationActivate(entry.ReservationID)
		}
	}
}

// Run крутит цикл до отмены контекста или Close. Вся отрисовка происходит
// в этой горутине.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case <-ticker.C:
			l.tick()
		}
	}
}

// Close останавливает цикл и сбрасывает отложенную работу
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
		l.mu.Lock()
		l.pending = nil
		l.hitmap = nil
		l.mu.Unlock()
	})
}

// tick один кадр: применить вьюпорт, отрисовать если есть повод
func (l *Loop) tick() {
	moved := l.applyPendingViewport()

	dirty := false
	select {
	case <-l.dirty:
		dirty = true
	default:
	}

	if !dirty && !moved {
		return
	}

	sc := l.build()
	if sc == nil {
		return
	}
	img, hits, err := l.engine.Draw(sc, l.Viewport())
	if err != nil {
		l.logger.Error("raster pass failed", zap.Error(err))
		return
	}

	l.mu.Lock()
	l.hitmap = hits
	l.mu.Unlock()

	if l.onFrame != nil {
		l.onFrame(img, hits)
	}
}

// applyPendingViewport применяет отложенный вьюпорт, игнорируя
// субпороговый сдвиг
func (l *Loop) applyPendingViewport() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pending == nil {
		return false
	}
	next := *l.pending
	l.pending = nil

	if abs(next.Min.X-l.viewport.Min.X) < minViewportDelta &&
		abs(next.Min.Y-l.viewport.Min.Y) < minViewportDelta &&
		next.Dx() == l.viewport.Dx() && next.Dy() == l.viewport.Dy() {
		return false
	}
	l.viewport = next
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
