package collab

import "sort"

// SentinelViewer маркер "кто-то" для события join без идентификатора:
// хотя бы одно кольцо должно отрисоваться вместо потери события
const SentinelViewer = "~someone"

// Presence редьюсер наборов зрителей по броням. Повторное применение
// одного события не меняет состояние, порядок join/left разных
// пользователей не важен.
type Presence struct {
	viewers map[int64]map[string]struct{}
}

// NewPresence создаёт пустое состояние присутствия
func NewPresence() *Presence {
	return &Presence{viewers: make(map[int64]map[string]struct{})}
}

// Apply применяет событие присутствия
func (p *Presence) Apply(msg PresenceMessage) {
	if msg.ReservationID == 0 {
		return
	}
	userID := msg.UserID
	if userID == "" {
		userID = SentinelViewer
	}

	switch msg.Type {
	case PresenceJoin:
		set, ok := p.viewers[msg.ReservationID]
		if !ok {
			set = make(map[string]struct{})
			p.viewers[msg.ReservationID] = set
		}
		set[userID] = struct{}{}
	case PresenceLeft:
		set, ok := p.viewers[msg.ReservationID]
		if !ok {
			return
		}
		delete(set, userID)
		if len(set) == 0 {
			delete(p.viewers, msg.ReservationID)
		}
	}
}

// Viewers возвращает отсортированный список зрителей брони
func (p *Presence) Viewers(reservationID int64) []string {
	set, ok := p.viewers[reservationID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
