package app

import (
	"context"
	"time"

	"github.com/avtoclass/schedboard/internal/collab"
	"go.uber.org/zap"
)

// Интервал уборки просроченных черновиков. Заметно короче их TTL,
// чтобы кольцо черновика не висело после истечения срока.
const sweepInterval = 5 * time.Second

// Sweeper фоновая уборка коллаборационного состояния
type Sweeper struct {
	session  *collab.Session
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewSweeper создаёт уборщик для сеанса
func NewSweeper(session *collab.Session, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		session:  session,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновую уборку
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting draft sweeper")
	go s.run(ctx)
}

// Stop останавливает фоновую уборку
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping draft sweeper")
	close(s.stopChan)
}

// run периодически удаляет черновики с истёкшим сроком
func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if dropped := s.session.SweepExpired(time.Now()); dropped > 0 {
				s.logger.Debug("Swept expired drafts", zap.Int("dropped", dropped))
			}
		case <-s.stopChan:
			s.logger.Info("Draft sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Draft sweeper cancelled")
			return
		}
	}
}
