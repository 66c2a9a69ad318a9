package availability

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Fetcher загружает заблокированные ключи времени инструктора
type Fetcher interface {
	BlockedKeys(ctx context.Context, instructorID int64) (map[string]struct{}, error)
}

// FetcherFunc адаптер функции к интерфейсу Fetcher
type FetcherFunc func(ctx context.Context, instructorID int64) (map[string]struct{}, error)

// BlockedKeys вызывает функцию
func (f FetcherFunc) BlockedKeys(ctx context.Context, instructorID int64) (map[string]struct{}, error) {
	return f(ctx, instructorID)
}

// PatchOp операция точечного изменения набора
type PatchOp string

const (
	PatchAdd    PatchOp = "add"
	PatchRemove PatchOp = "remove"
)

// Index кеш заблокированных ключей по инструкторам. Загрузка ленивая,
// параллельные запросы по одному инструктору схлопываются в один фактический
// вызов Fetcher. Точечные изменения применяются без повторной загрузки.
type Index struct {
	mu       sync.RWMutex
	fetcher  Fetcher
	logger   *zap.Logger
	group    singleflight.Group
	blocked  map[int64]map[string]struct{}
	versions map[int64]uint64
}

// NewIndex создаёт пустой индекс доступности
func NewIndex(fetcher Fetcher, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{
		fetcher:  fetcher,
		logger:   logger,
		blocked:  make(map[int64]map[string]struct{}),
		versions: make(map[int64]uint64),
	}
}

// EnsureLoaded гарантирует наличие набора для инструктора. Идемпотентна,
// одновременные вызовы по одному id дают одну логическую загрузку.
// Ошибка загрузки не пробрасывается: инструктор получает пустой набор
// (fail-open) и остаётся кандидатом на явную инвалидацию.
func (ix *Index) EnsureLoaded(ctx context.Context, instructorID int64) {
	ix.mu.RLock()
	_, loaded := ix.blocked[instructorID]
	ix.mu.RUnlock()
	if loaded {
		return
	}

	ix.group.Do(strconv.FormatInt(instructorID, 10), func() (interface{}, error) {
		ix.mu.RLock()
		_, loaded := ix.blocked[instructorID]
		ix.mu.RUnlock()
		if loaded {
			return nil, nil
		}

		keys, err := ix.fetcher.BlockedKeys(ctx, instructorID)
		if err != nil {
			ix.logger.Warn("availability fetch failed, treating as empty",
				zap.Int64("instructor_id", instructorID),
				zap.Error(err))
			keys = nil
		}
		if keys == nil {
			keys = make(map[string]struct{})
		}

		ix.mu.Lock()
		ix.blocked[instructorID] = keys
		ix.versions[instructorID]++
		ix.mu.Unlock()
		return nil, nil
	})
}

// Blocked возвращает текущий набор заблокированных ключей инструктора.
// Набор неизменяем: Patch всегда подменяет его целиком новым объектом.
func (ix *Index) Blocked(instructorID int64) map[string]struct{} {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.blocked[instructorID]
}

// IsBlocked проверяет один ключ
func (ix *Index) IsBlocked(instructorID int64, key string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.blocked[instructorID][key]
	return ok
}

// Version монотонный счётчик версий набора. Потребители сравнивают версии
// вместо идентичности объектов.
func (ix *Index) Version(instructorID int64) uint64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.versions[instructorID]
}

// Patch точечно меняет набор без повторной загрузки, собирая новый объект
// набора и поднимая версию. Отсутствующая запись создаётся пустой.
func (ix *Index) Patch(instructorID int64, key string, op PatchOp) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	next := make(map[string]struct{}, len(ix.blocked[instructorID])+1)
	for k := range ix.blocked[instructorID] {
		next[k] = struct{}{}
	}
	switch op {
	case PatchAdd:
		next[key] = struct{}{}
	case PatchRemove:
		delete(next, key)
	default:
		return
	}
	ix.blocked[instructorID] = next
	ix.versions[instructorID]++
}

// Invalidate сбрасывает запись инструктора, следующий EnsureLoaded
// выполнит фактическую загрузку заново
func (ix *Index) Invalidate(instructorID int64) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.blocked, instructorID)
	ix.versions[instructorID]++
}
