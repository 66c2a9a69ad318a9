package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresence_JoinIsIdempotent(t *testing.T) {
	p := NewPresence()

	p.Apply(PresenceMessage{ReservationID: 101, UserID: "user-a", Type: PresenceJoin})
	p.Apply(PresenceMessage{ReservationID: 101, UserID: "user-a", Type: PresenceJoin})

	assert.Equal(t, []string{"user-a"}, p.Viewers(101))
}

func TestPresence_LeftIsIdempotent(t *testing.T) {
	p := NewPresence()

	p.Apply(PresenceMessage{ReservationID: 101, UserID: "user-a", Type: PresenceJoin})
	p.Apply(PresenceMessage{ReservationID: 101, UserID: "user-a", Type: PresenceLeft})
	p.Apply(PresenceMessage{ReservationID: 101, UserID: "user-a", Type: PresenceLeft})

	assert.Empty(t, p.Viewers(101))
}

func TestPresence_MissingUserBecomesSentinel(t *testing.T) {
	p := NewPresence()

	// Событие без идентификатора не теряется: хотя бы одно кольцо будет
	p.Apply(PresenceMessage{ReservationID: 101, Type: PresenceJoin})

	assert.Equal(t, []string{SentinelViewer}, p.Viewers(101))
}

func TestPresence_ViewersSortedAndIsolatedPerReservation(t *testing.T) {
	p := NewPresence()

	p.Apply(PresenceMessage{ReservationID: 101, UserID: "zeta", Type: PresenceJoin})
	p.Apply(PresenceMessage{ReservationID: 101, UserID: "alpha", Type: PresenceJoin})
	p.Apply(PresenceMessage{ReservationID: 102, UserID: "beta", Type: PresenceJoin})

	assert.Equal(t, []string{"alpha", "zeta"}, p.Viewers(101))
	assert.Equal(t, []string{"beta"}, p.Viewers(102))
}

func TestPresence_LeftBeforeJoinIsNoop(t *testing.T) {
	p := NewPresence()

	// Перестановка join/left в сети не роняет состояние
	p.Apply(PresenceMessage{ReservationID: 101, UserID: "user-a", Type: PresenceLeft})

	assert.Empty(t, p.Viewers(101))
}

func TestPresence_ZeroReservationIgnored(t *testing.T) {
	p := NewPresence()

	p.Apply(PresenceMessage{UserID: "user-a", Type: PresenceJoin})

	assert.Empty(t, p.Viewers(0))
}
