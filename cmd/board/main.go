package main

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"github.com/avtoclass/schedboard/internal/app"
	"github.com/avtoclass/schedboard/internal/availability"
	"github.com/avtoclass/schedboard/internal/board"
	"github.com/avtoclass/schedboard/internal/board/render"
	"github.com/avtoclass/schedboard/internal/board/scene"
	"github.com/avtoclass/schedboard/internal/board/theme"
	"github.com/avtoclass/schedboard/internal/board/tile"
	"github.com/avtoclass/schedboard/internal/collab"
	"github.com/avtoclass/schedboard/internal/config"
	"github.com/avtoclass/schedboard/internal/model"
	"github.com/avtoclass/schedboard/internal/repository"
	"github.com/avtoclass/schedboard/internal/timegrid"
	"github.com/avtoclass/schedboard/internal/viewstate"
	"github.com/fogleman/gg"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	grid := timegrid.DefaultConfig()
	weekStart := mondayOf(time.Now())
	days := make([]time.Time, 0, 7)
	for d := 0; d < 7; d++ {
		days = append(days, weekStart.AddDate(0, 0, d))
	}

	// Данные: из Postgres если задан DSN, иначе демо-набор
	var (
		instructors  []*model.Instructor
		reservations []*model.Reservation
		fetcher      availability.Fetcher
	)
	if cfg.DBDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		migrator.Close()

		instructors, err = repository.NewInstructorRepository(pool).GetAll(ctx)
		if err != nil {
			logger.Fatal("Failed to load instructors", zap.Error(err))
		}
		reservations, err = repository.NewReservationRepository(pool).GetByRange(ctx, weekStart, weekStart.AddDate(0, 0, 7))
		if err != nil {
			logger.Fatal("Failed to load reservations", zap.Error(err))
		}
		fetcher = availability.NewStoreFetcher(repository.NewBlackoutRepository(pool), grid, 60)
	} else {
		logger.Info("DB_DSN not set, using demo data")
		instructors = demoInstructors()
		reservations = demoReservations(weekStart)
		blackouts := demoBlackouts(weekStart)
		allowed := grid.KeysForDays(days)
		fetcher = availability.FetcherFunc(func(ctx context.Context, instructorID int64) (map[string]struct{}, error) {
			blocked := make(map[string]struct{})
			for _, b := range blackouts {
				if b.InstructorID != instructorID {
					continue
				}
				for _, key := range b.Expand(allowed) {
					blocked[key] = struct{}{}
				}
			}
			return blocked, nil
		})
	}

	avail := availability.NewIndex(fetcher, logger)
	for _, inst := range instructors {
		avail.EnsureLoaded(ctx, inst.ID)
	}

	// Коллаборация: Redis pub/sub если задан адрес, иначе автономный сеанс
	var transport *collab.Transport
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		transport = collab.NewTransport(rdb, logger)
	}
	var session *collab.Session
	if transport != nil {
		session = collab.NewSession(transport, logger)
		transport.Attach(session)
		go func() {
			if err := transport.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("collab transport stopped", zap.Error(err))
			}
		}()
	} else {
		session = collab.NewSession(nil, logger)
	}

	sweeper := app.NewSweeper(session, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	// Немного живности для оверлеев
	session.SetUserColor("dispatcher-1", "#e6194b")
	session.JoinReservation(ctx, 101, "dispatcher-1")
	session.JoinReservation(ctx, 101, "dispatcher-2")
	if len(instructors) > 0 {
		session.StartDraft(ctx, instructors[0].ID, weekStart.Add(11*time.Hour), "dispatcher-2")
	}

	views := viewstate.NewStore()
	window := tile.NewWindow(tile.DefaultConfig())

	fonts, err := render.LoadFonts(cfg.FontPath)
	if err != nil {
		logger.Warn("Falling back to built-in font", zap.Error(err))
	}
	engine := render.NewEngine(render.DefaultGeometry(), theme.NewCache(theme.Default()), fonts, logger)

	zoom := views.ZoomFactor()
	scrollX, _ := views.Scroll(model.DayKey(weekStart))
	viewport := image.Rect(int(scrollX), 0, int(scrollX)+1600, 900)

	var lp *board.Loop
	buildScene := func() *scene.Scene {
		vp := lp.Viewport()
		visible := window.Visible(len(days), engine.DayStride(zoom), float64(vp.Min.X), float64(vp.Dx()), false, time.Now())
		return scene.Build(scene.Input{
			Days:           days,
			VisibleTiles:   visible,
			ItemsPerTile:   1,
			Instructors:    instructors,
			Scheme:         model.OrderSchemeA,
			Reservations:   reservations,
			Grid:           grid,
			Blocked:        avail.Blocked,
			PresenceColors: session.PresenceColors,
			DraftColors:    session.DraftColors,
			Theme:          theme.NewCache(theme.Default()),
			Measure:        engine.MeasureNote,
			NoteWidth:      engine.NoteWidth(zoom),
			NoteLines:      2,
			Zoom:           zoom,
		})
	}

	var mu sync.Mutex
	var lastFrame image.Image
	onFrame := func(img image.Image, hits render.HitMap) {
		mu.Lock()
		lastFrame = img
		mu.Unlock()
		logger.Debug("frame rendered", zap.Int("hit_entries", len(hits)))
	}

	callbacks := board.Callbacks{
		OnSlotActivate: func(instructorID int64, start, end time.Time) {
			logger.Info("slot activated",
				zap.Int64("instructor_id", instructorID),
				zap.Time("start", start),
				zap.Time("end", end))
		},
		OnReservationActivate: func(reservationID int64) {
			logger.Info("reservation activated", zap.Int64("reservation_id", reservationID))
		},
		OnDeselect: func() {
			logger.Info("deselected")
		},
	}

	lp = board.NewLoop(engine, buildScene, onFrame, callbacks, logger)
	session.OnChange(lp.Invalidate)

	loopCtx, stopLoop := context.WithTimeout(ctx, 200*time.Millisecond)
	defer stopLoop()

	go lp.Run(loopCtx)
	lp.SetViewport(viewport)
	lp.Invalidate()
	<-loopCtx.Done()
	lp.Close()

	views.SetScroll(model.DayKey(weekStart), float64(viewport.Min.X))

	mu.Lock()
	frame := lastFrame
	mu.Unlock()
	if frame == nil {
		logger.Fatal("No frame rendered")
	}
	if err := gg.SavePNG(cfg.OutputPath, frame); err != nil {
		logger.Fatal("Failed to save board image", zap.Error(err))
	}

	logger.Info("Board rendered",
		zap.String("output", cfg.OutputPath),
		zap.Int("instructors", len(instructors)),
		zap.Int("reservations", len(reservations)),
		zap.Int("days", len(days)))
}

// mondayOf нормализует дату к понедельнику её недели
func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, -1)
	}
	return day
}
