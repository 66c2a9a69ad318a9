package collab

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Ошибки разбора сетевых сообщений. Сообщение с такой ошибкой
// отбрасывается без изменения состояния.
var (
	ErrMalformedMessage = errors.New("malformed collab message")
	ErrBadSlotKey       = errors.New("invalid slot key")
)

// PresenceType тип события присутствия на существующей брони
type PresenceType string

const (
	PresenceJoin PresenceType = "join"
	PresenceLeft PresenceType = "left"
)

// PresenceMessage событие просмотра/редактирования существующей брони
type PresenceMessage struct {
	ReservationID int64        `json:"reservationId"`
	UserID        string       `json:"userId"`
	Type          PresenceType `json:"type"`
	Seq           int64        `json:"seq,omitempty"` // порядковый номер транспорта, зарезервирован
}

// DraftAction действие над черновиком брони в пустом слоте
type DraftAction string

const (
	DraftStart DraftAction = "start"
	DraftClear DraftAction = "clear"
)

// DraftAuthor автор черновика
type DraftAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

// DraftMessage событие черновика. Пустой StartedBy у действия start
// трактуется как clear всего слота.
type DraftMessage struct {
	SlotKey   string       `json:"slotKey"` // "instructorId|ISO-start"
	Action    DraftAction  `json:"action"`
	StartedBy *DraftAuthor `json:"startedBy,omitempty"`
	Seq       int64        `json:"seq,omitempty"`
}

// MakeSlotKey собирает ключ слота черновика из инструктора и начала слота
func MakeSlotKey(instructorID int64, start time.Time) string {
	return strconv.FormatInt(instructorID, 10) + "|" + start.Format(time.RFC3339)
}

// ParseSlotKey разбирает ключ слота черновика
func ParseSlotKey(key string) (int64, time.Time, error) {
	parts := strings.SplitN(key, "|", 2)
	if len(parts) != 2 {
		return 0, time.Time{}, fmt.Errorf("%w: %q", ErrBadSlotKey, key)
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: %q", ErrBadSlotKey, key)
	}
	start, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: %q", ErrBadSlotKey, key)
	}
	return id, start, nil
}
