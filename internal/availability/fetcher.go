package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/avtoclass/schedboard/internal/model"
	"github.com/avtoclass/schedboard/internal/timegrid"
)

// BlackoutSource источник записей недоступности инструктора
type BlackoutSource interface {
	GetByInstructor(ctx context.Context, instructorID int64) ([]*model.Blackout, error)
}

// StoreFetcher загружает недоступность из хранилища и разворачивает
// REPEAT-правила, ограничивая их ключами сетки в пределах горизонта.
type StoreFetcher struct {
	source      BlackoutSource
	grid        timegrid.Config
	horizonDays int
	now         func() time.Time
}

// NewStoreFetcher создаёт загрузчик с горизонтом в днях от текущей даты
func NewStoreFetcher(source BlackoutSource, grid timegrid.Config, horizonDays int) *StoreFetcher {
	if horizonDays <= 0 {
		horizonDays = 60
	}
	return &StoreFetcher{
		source:      source,
		grid:        grid,
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

// BlockedKeys реализует Fetcher
func (f *StoreFetcher) BlockedKeys(ctx context.Context, instructorID int64) (map[string]struct{}, error) {
	entries, err := f.source.GetByInstructor(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("load blackouts: %w", err)
	}

	today := f.now()
	days := make([]time.Time, 0, f.horizonDays)
	for d := 0; d < f.horizonDays; d++ {
		days = append(days, today.AddDate(0, 0, d))
	}
	allowed := f.grid.KeysForDays(days)

	blocked := make(map[string]struct{})
	for _, entry := range entries {
		for _, key := range entry.Expand(allowed) {
			blocked[key] = struct{}{}
		}
	}
	return blocked, nil
}
