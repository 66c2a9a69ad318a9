package collab

import (
	"sort"
	"time"
)

// DefaultDraftTTL время жизни черновика без продления
const DefaultDraftTTL = 60 * time.Second

type draftEntry struct {
	users     map[string]struct{}
	expiresAt time.Time
	startedBy string // последний начавший
}

// Drafts редьюсер черновиков по слотам. Инвариант: пользователь состоит
// не более чем в одном активном слоте, start на новом слоте выселяет его
// из предыдущего. Повторное применение одного события безопасно.
type Drafts struct {
	entries map[string]*draftEntry
	ttl     time.Duration
}

// NewDrafts создаёт пустое состояние черновиков
func NewDrafts(ttl time.Duration) *Drafts {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &Drafts{
		entries: make(map[string]*draftEntry),
		ttl:     ttl,
	}
}

// Apply применяет событие черновика
func (d *Drafts) Apply(msg DraftMessage, now time.Time) {
	if msg.SlotKey == "" {
		return
	}

	action := msg.Action
	if action == DraftStart && (msg.StartedBy == nil || msg.StartedBy.ID == "") {
		// start без автора - завершение черновика целиком
		delete(d.entries, msg.SlotKey)
		return
	}

	switch action {
	case DraftStart:
		userID := msg.StartedBy.ID
		d.removeEverywhere(userID, msg.SlotKey)

		entry, ok := d.entries[msg.SlotKey]
		if !ok {
			entry = &draftEntry{users: make(map[string]struct{})}
			d.entries[msg.SlotKey] = entry
		}
		entry.users[userID] = struct{}{}
		entry.expiresAt = now.Add(d.ttl)
		entry.startedBy = userID
	case DraftClear:
		entry, ok := d.entries[msg.SlotKey]
		if !ok {
			return
		}
		if msg.StartedBy == nil || msg.StartedBy.ID == "" {
			delete(d.entries, msg.SlotKey)
			return
		}
		delete(entry.users, msg.StartedBy.ID)
		if len(entry.users) == 0 {
			delete(d.entries, msg.SlotKey)
		}
	}
}

// SweepExpired удаляет черновики с истёкшим сроком, возвращает число удалённых
func (d *Drafts) SweepExpired(now time.Time) int {
	dropped := 0
	for key, entry := range d.entries {
		if entry.expiresAt.Before(now) {
			delete(d.entries, key)
			dropped++
		}
	}
	return dropped
}

// Authors возвращает отсортированный список авторов черновика слота
func (d *Drafts) Authors(slotKey string) []string {
	entry, ok := d.entries[slotKey]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(entry.users))
	for id := range entry.users {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ActiveSlot возвращает слот, в котором пользователь сейчас ведёт черновик
func (d *Drafts) ActiveSlot(userID string) (string, bool) {
	for key, entry := range d.entries {
		if _, ok := entry.users[userID]; ok {
			return key, true
		}
	}
	return "", false
}

// removeEverywhere убирает пользователя из всех слотов кроме указанного
func (d *Drafts) removeEverywhere(userID, exceptKey string) {
	for key, entry := range d.entries {
		if key == exceptKey {
			continue
		}
		if _, ok := entry.users[userID]; !ok {
			continue
		}
		delete(entry.users, userID)
		if len(entry.users) == 0 {
			delete(d.entries, key)
		}
	}
}
