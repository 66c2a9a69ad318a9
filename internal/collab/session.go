package collab

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher отправляет исходящие сообщения другим сеансам доски
type Publisher interface {
	PublishPresence(ctx context.Context, msg PresenceMessage) error
	PublishDraft(ctx context.Context, msg DraftMessage) error
}

// Session владеет состоянием присутствия и черновиков одного сеанса доски.
// Локальные действия применяются к состоянию синхронно (оптимистично) и
// только потом уходят в сеть; эхо и удалённые события проходят через те же
// редьюсеры, поэтому дубликат или перестановка не портят состояние.
// Явный сервис вместо глобальных хендлов: владелец сеанса передаёт Session
// по ссылке всем, кому нужна коллаборация.
type Session struct {
	mu        sync.Mutex
	presence  *Presence
	drafts    *Drafts
	profiles  map[string]string // userID -> цвет профиля
	publisher Publisher
	logger    *zap.Logger
	clientID  string
	onChange  func()
	now       func() time.Time
}

// NewSession создаёт сеанс. publisher может быть nil (автономная доска),
// onChange вызывается после каждого изменения состояния для перерисовки.
func NewSession(publisher Publisher, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		presence:  NewPresence(),
		drafts:    NewDrafts(DefaultDraftTTL),
		profiles:  make(map[string]string),
		publisher: publisher,
		logger:    logger,
		clientID:  uuid.NewString(),
		now:       time.Now,
	}
}

// ClientID идентификатор сеанса
func (s *Session) ClientID() string {
	return s.clientID
}

// OnChange регистрирует сигнал перерисовки
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SetUserColor запоминает цвет профиля пользователя
func (s *Session) SetUserColor(userID, color string) {
	s.mu.Lock()
	s.profiles[userID] = color
	s.mu.Unlock()
}

// JoinReservation локальное действие: пользователь открыл бронь
func (s *Session) JoinReservation(ctx context.Context, reservationID int64, userID string) {
	msg := PresenceMessage{ReservationID: reservationID, UserID: userID, Type: PresenceJoin}
	s.applyPresence(msg)
	s.publishPresence(ctx, msg)
}

// LeaveReservation локальное действие: пользователь закрыл бронь
func (s *Session) LeaveReservation(ctx context.Context, reservationID int64, userID string) {
	msg := PresenceMessage{ReservationID: reservationID, UserID: userID, Type: PresenceLeft}
	s.applyPresence(msg)
	s.publishPresence(ctx, msg)
}

// StartDraft локальное действие: пользователь начал черновик в пустом слоте
func (s *Session) StartDraft(ctx context.Context, instructorID int64, start time.Time, userID string) {
	msg := DraftMessage{
		SlotKey:   MakeSlotKey(instructorID, start),
		Action:    DraftStart,
		StartedBy: &DraftAuthor{ID: userID},
	}
	s.applyDraft(msg)
	s.publishDraft(ctx, msg)
}

// ClearDraft локальное действие: пользователь отменил черновик
func (s *Session) ClearDraft(ctx context.Context, instructorID int64, start time.Time, userID string) {
	msg := DraftMessage{
		SlotKey:   MakeSlotKey(instructorID, start),
		Action:    DraftClear,
		StartedBy: &DraftAuthor{ID: userID},
	}
	s.applyDraft(msg)
	s.publishDraft(ctx, msg)
}

// HandlePresence применяет сырое сетевое событие присутствия.
// Невалидное сообщение отбрасывается без изменения состояния.
func (s *Session) HandlePresence(raw []byte) error {
	var msg PresenceMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.ReservationID == 0 {
		return fmt.Errorf("%w: missing reservation id", ErrMalformedMessage)
	}
	if msg.Type != PresenceJoin && msg.Type != PresenceLeft {
		return fmt.Errorf("%w: unknown presence type %q", ErrMalformedMessage, msg.Type)
	}
	s.applyPresence(msg)
	return nil
}

// HandleDraft применяет сырое сетевое событие черновика
func (s *Session) HandleDraft(raw []byte) error {
	var msg DraftMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.Action != DraftStart && msg.Action != DraftClear {
		return fmt.Errorf("%w: unknown draft action %q", ErrMalformedMessage, msg.Action)
	}
	if _, _, err := ParseSlotKey(msg.SlotKey); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	s.applyDraft(msg)
	return nil
}

// SweepExpired удаляет просроченные черновики, сигналит перерисовку
// только если что-то изменилось
func (s *Session) SweepExpired(now time.Time) int {
	s.mu.Lock()
	dropped := s.drafts.SweepExpired(now)
	signal := s.onChange
	s.mu.Unlock()

	if dropped > 0 && signal != nil {
		signal()
	}
	return dropped
}

// PresenceColors цвета зрителей брони для отрисовки колец
func (s *Session) PresenceColors(reservationID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return resolveColors(s.presence.Viewers(reservationID), s.profiles)
}

// DraftColors цвета авторов черновика слота для отрисовки колец
func (s *Session) DraftColors(slotKey string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return resolveColors(s.drafts.Authors(slotKey), s.profiles)
}

// Viewers зрители брони
func (s *Session) Viewers(reservationID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presence.Viewers(reservationID)
}

// DraftAuthors авторы черновика слота
func (s *Session) DraftAuthors(slotKey string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts.Authors(slotKey)
}

// ActiveDraftSlot слот, в котором пользователь сейчас ведёт черновик
func (s *Session) ActiveDraftSlot(userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts.ActiveSlot(userID)
}

func (s *Session) applyPresence(msg PresenceMessage) {
	s.mu.Lock()
	s.presence.Apply(msg)
	signal := s.onChange
	s.mu.Unlock()

	if signal != nil {
		signal()
	}
}

func (s *Session) applyDraft(msg DraftMessage) {
	s.mu.Lock()
	s.drafts.Apply(msg, s.now())
	signal := s.onChange
	s.mu.Unlock()

	if signal != nil {
		signal()
	}
}

func (s *Session) publishPresence(ctx context.Context, msg PresenceMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPresence(ctx, msg); err != nil {
		s.logger.Warn("publish presence failed", zap.Error(err))
	}
}

func (s *Session) publishDraft(ctx context.Context, msg DraftMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishDraft(ctx, msg); err != nil {
		s.logger.Warn("publish draft failed", zap.Error(err))
	}
}
