package collab

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startMsg(slotKey, userID string) DraftMessage {
	return DraftMessage{SlotKey: slotKey, Action: DraftStart, StartedBy: &DraftAuthor{ID: userID}}
}

func TestDrafts_StartIsIdempotent(t *testing.T) {
	d := NewDrafts(DefaultDraftTTL)
	now := time.Now()

	d.Apply(startMsg("1|2026-03-02T09:00:00Z", "user-a"), now)
	d.Apply(startMsg("1|2026-03-02T09:00:00Z", "user-a"), now)

	assert.Equal(t, []string{"user-a"}, d.Authors("1|2026-03-02T09:00:00Z"))
}

func TestDrafts_StartEvictsFromPreviousSlot(t *testing.T) {
	d := NewDrafts(DefaultDraftTTL)
	now := time.Now()

	d.Apply(startMsg("1|2026-03-02T09:00:00Z", "user-a"), now)
	d.Apply(startMsg("1|2026-03-02T10:00:00Z", "user-a"), now)

	// Пользователь состоит не более чем в одном активном слоте
	assert.Empty(t, d.Authors("1|2026-03-02T09:00:00Z"))
	assert.Equal(t, []string{"user-a"}, d.Authors("1|2026-03-02T10:00:00Z"))

	slot, ok := d.ActiveSlot("user-a")
	require.True(t, ok)
	assert.Equal(t, "1|2026-03-02T10:00:00Z", slot)
}

func TestDrafts_RapidRestartsKeepOnlyLastSlot(t *testing.T) {
	d := NewDrafts(DefaultDraftTTL)
	now := time.Now()

	slots := []string{
		"2|2026-03-02T09:00:00Z",
		"2|2026-03-02T10:00:00Z",
		"2|2026-03-02T11:00:00Z",
	}
	for _, key := range slots {
		d.Apply(startMsg(key, "user-a"), now)
	}

	assert.Empty(t, d.Authors(slots[0]))
	assert.Empty(t, d.Authors(slots[1]))
	assert.Equal(t, []string{"user-a"}, d.Authors(slots[2]))
}

func TestDrafts_StartWithoutAuthorClearsSlot(t *testing.T) {
	d := NewDrafts(DefaultDraftTTL)
	now := time.Now()
	key := "1|2026-03-02T09:00:00Z"

	d.Apply(startMsg(key, "user-a"), now)
	d.Apply(startMsg(key, "user-b"), now)
	// start без автора завершает черновик целиком
	d.Apply(DraftMessage{SlotKey: key, Action: DraftStart}, now)

	assert.Empty(t, d.Authors(key))
}

func TestDrafts_ClearRemovesOnlyAuthor(t *testing.T) {
	d := NewDrafts(DefaultDraftTTL)
	now := time.Now()
	key := "1|2026-03-02T09:00:00Z"

	d.Apply(startMsg(key, "user-a"), now)
	d.Apply(startMsg(key, "user-b"), now)
	d.Apply(DraftMessage{SlotKey: key, Action: DraftClear, StartedBy: &DraftAuthor{ID: "user-a"}}, now)

	assert.Equal(t, []string{"user-b"}, d.Authors(key))
}

func TestDrafts_ClearUnknownSlotIsNoop(t *testing.T) {
	d := NewDrafts(DefaultDraftTTL)
	now := time.Now()

	d.Apply(DraftMessage{SlotKey: "9|2026-03-02T09:00:00Z", Action: DraftClear, StartedBy: &DraftAuthor{ID: "user-a"}}, now)

	assert.Empty(t, d.Authors("9|2026-03-02T09:00:00Z"))
}

func TestDrafts_SweepExpiredDropsStaleEntries(t *testing.T) {
	d := NewDrafts(DefaultDraftTTL)
	base := time.Now()
	key := "1|2026-03-02T09:00:00Z"

	d.Apply(startMsg(key, "user-a"), base)

	// До истечения TTL черновик живёт
	assert.Zero(t, d.SweepExpired(base.Add(30*time.Second)))
	assert.Equal(t, []string{"user-a"}, d.Authors(key))

	// Через 61 секунду без продления - удалён
	assert.Equal(t, 1, d.SweepExpired(base.Add(61*time.Second)))
	assert.Empty(t, d.Authors(key))
}

func TestDrafts_RestartRefreshesExpiry(t *testing.T) {
	d := NewDrafts(DefaultDraftTTL)
	base := time.Now()
	key := "1|2026-03-02T09:00:00Z"

	d.Apply(startMsg(key, "user-a"), base)
	d.Apply(startMsg(key, "user-a"), base.Add(50*time.Second))

	// Повторный start продлил срок: на 61-й секунде от первого ещё жив
	assert.Zero(t, d.SweepExpired(base.Add(61*time.Second)))
	assert.Equal(t, []string{"user-a"}, d.Authors(key))
}
