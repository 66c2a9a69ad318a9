package availability

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher считает фактические загрузки
type countingFetcher struct {
	calls int32
	keys  map[string]struct{}
	err   error
	delay time.Duration
}

func (f *countingFetcher) BlockedKeys(_ context.Context, _ int64) (map[string]struct{}, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.keys, nil
}

func TestIndex_EnsureLoadedIsIdempotent(t *testing.T) {
	f := &countingFetcher{keys: map[string]struct{}{"2026-03-02|09:00": {}}}
	ix := NewIndex(f, nil)
	ctx := context.Background()

	ix.EnsureLoaded(ctx, 1)
	ix.EnsureLoaded(ctx, 1)
	ix.EnsureLoaded(ctx, 1)

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.calls))
	assert.True(t, ix.IsBlocked(1, "2026-03-02|09:00"))
}

func TestIndex_ConcurrentEnsureLoadedCoalesces(t *testing.T) {
	f := &countingFetcher{keys: map[string]struct{}{}, delay: 20 * time.Millisecond}
	ix := NewIndex(f, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ix.EnsureLoaded(ctx, 1)
		}()
	}
	wg.Wait()

	// Десять одновременных вызовов - одна фактическая загрузка
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.calls))
}

func TestIndex_FetchErrorFailsOpen(t *testing.T) {
	f := &countingFetcher{err: errors.New("db down")}
	ix := NewIndex(f, nil)
	ctx := context.Background()

	ix.EnsureLoaded(ctx, 1)

	// Ошибка не блокирует инструктора: набор пустой, запись создана
	require.NotNil(t, ix.Blocked(1))
	assert.Empty(t, ix.Blocked(1))
	assert.False(t, ix.IsBlocked(1, "2026-03-02|09:00"))

	// Повторный EnsureLoaded не долбит источник
	ix.EnsureLoaded(ctx, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.calls))
}

func TestIndex_PatchReplacesSetAndBumpsVersion(t *testing.T) {
	f := &countingFetcher{keys: map[string]struct{}{"2026-03-02|09:00": {}}}
	ix := NewIndex(f, nil)
	ctx := context.Background()

	ix.EnsureLoaded(ctx, 1)
	before := ix.Blocked(1)
	v1 := ix.Version(1)

	ix.Patch(1, "2026-03-02|10:00", PatchAdd)

	// Снимок до патча неизменен, набор подменён целиком
	_, inOld := before["2026-03-02|10:00"]
	assert.False(t, inOld)
	assert.True(t, ix.IsBlocked(1, "2026-03-02|10:00"))
	assert.Greater(t, ix.Version(1), v1)

	ix.Patch(1, "2026-03-02|09:00", PatchRemove)
	assert.False(t, ix.IsBlocked(1, "2026-03-02|09:00"))
	assert.True(t, ix.IsBlocked(1, "2026-03-02|10:00"))
}

func TestIndex_PatchOnUnloadedCreatesEntry(t *testing.T) {
	ix := NewIndex(&countingFetcher{}, nil)

	ix.Patch(5, "2026-03-02|09:00", PatchAdd)

	assert.True(t, ix.IsBlocked(5, "2026-03-02|09:00"))
	assert.Equal(t, uint64(1), ix.Version(5))
}

func TestIndex_InvalidateForcesRefetch(t *testing.T) {
	f := &countingFetcher{keys: map[string]struct{}{"2026-03-02|09:00": {}}}
	ix := NewIndex(f, nil)
	ctx := context.Background()

	ix.EnsureLoaded(ctx, 1)
	v1 := ix.Version(1)

	ix.Invalidate(1)
	assert.Nil(t, ix.Blocked(1))
	assert.Greater(t, ix.Version(1), v1)

	ix.EnsureLoaded(ctx, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.calls))
	assert.True(t, ix.IsBlocked(1, "2026-03-02|09:00"))
}

func TestIndex_InstructorsAreIndependent(t *testing.T) {
	f := &countingFetcher{keys: map[string]struct{}{"2026-03-02|09:00": {}}}
	ix := NewIndex(f, nil)
	ctx := context.Background()

	ix.EnsureLoaded(ctx, 1)
	ix.EnsureLoaded(ctx, 2)

	assert.Equal(t, int32(2), atomic.LoadInt32(&f.calls))

	ix.Patch(1, "2026-03-02|10:00", PatchAdd)
	assert.False(t, ix.IsBlocked(2, "2026-03-02|10:00"))
}
