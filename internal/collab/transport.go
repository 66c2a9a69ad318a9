package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Каналы pub/sub для коллаборационных сообщений доски
const (
	presenceChannel = "board:presence"
	draftChannel    = "board:draft"
)

// Transport доставляет сообщения присутствия и черновиков между сеансами
// через Redis pub/sub. Эхо собственных сообщений безопасно: редьюсеры
// идемпотентны к повторному применению.
type Transport struct {
	rdb     *redis.Client
	session *Session
	logger  *zap.Logger
}

// NewTransport создаёт транспорт поверх существующего клиента Redis.
// Сеанс-получатель входящих сообщений подключается через Attach.
func NewTransport(rdb *redis.Client, logger *zap.Logger) *Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{rdb: rdb, logger: logger}
}

// Attach подключает сеанс-получатель входящих сообщений
func (t *Transport) Attach(session *Session) {
	t.session = session
}

// PublishPresence реализует Publisher
func (t *Transport) PublishPresence(ctx context.Context, msg PresenceMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal presence: %w", err)
	}
	if err := t.rdb.Publish(ctx, presenceChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish presence: %w", err)
	}
	return nil
}

// PublishDraft реализует Publisher
func (t *Transport) PublishDraft(ctx context.Context, msg DraftMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := t.rdb.Publish(ctx, draftChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish draft: %w", err)
	}
	return nil
}

// Run подписывается на каналы и раздаёт входящие сообщения сеансу
// до отмены контекста. Невалидные сообщения логируются и отбрасываются.
func (t *Transport) Run(ctx context.Context) error {
	pubsub := t.rdb.Subscribe(ctx, presenceChannel, draftChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe collab channels: %w", err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			t.dispatch(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (t *Transport) dispatch(channel string, payload []byte) {
	if t.session == nil {
		return
	}
	var err error
	switch channel {
	case presenceChannel:
		err = t.session.HandlePresence(payload)
	case draftChannel:
		err = t.session.HandleDraft(payload)
	default:
		return
	}
	if err != nil && errors.Is(err, ErrMalformedMessage) {
		t.logger.Debug("dropped malformed collab message",
			zap.String("channel", channel),
			zap.Error(err))
	}
}
