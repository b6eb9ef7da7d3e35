package notify

import (
	"context"
	"testing"
	"time"

	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
}

func (r *recorder) Publish(_ context.Context, e Event) {
	r.events = append(r.events, e)
}

func TestMulti_Publish(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, nil, Nop{}, b}

	e := PlayersUpdate([]md.Device{{CPUSerial: "CPU-1"}}, time.Now())
	m.Publish(context.Background(), e)

	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	assert.Equal(t, TypePlayersUpdate, b.events[0].Type)
	assert.Empty(t, b.events[0].AccountID)
}

func TestPairingSucceeded(t *testing.T) {
	acc, devUUID := "O", "uuid-1"
	d := &md.Device{ID: uuid.New(), CPUSerial: "CPU-1", DeviceUUID: &devUUID, AccountID: &acc, Name: "Lobby"}

	e := PairingSucceeded(d, time.Now())
	assert.Equal(t, TypePairingSucceeded, e.Type)
	assert.Equal(t, "O", e.AccountID)

	p, ok := e.Payload.(PairingPayload)
	require.True(t, ok)
	assert.Equal(t, d.ID, p.PlayerID)
	assert.Equal(t, "uuid-1", p.DeviceUUID)
	assert.Equal(t, "Lobby", p.Name)
}

func TestPresenceChanged(t *testing.T) {
	seen := time.Now()
	d := &md.Device{ID: uuid.New(), CPUSerial: "CPU-1", Status: md.StatusOnline, LastSeen: &seen}

	e := PresenceChanged(d, seen)
	assert.Equal(t, TypePresenceChanged, e.Type)
	assert.Empty(t, e.AccountID)

	p, ok := e.Payload.(PresencePayload)
	require.True(t, ok)
	assert.Equal(t, md.StatusOnline, p.Status)
	assert.Equal(t, &seen, p.LastSeen)
}
