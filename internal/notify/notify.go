package notify

import (
	"context"
	"time"

	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/google/uuid"
)

type Type string

const (
	TypePairingSucceeded Type = "pairing:success"
	TypePlayersUpdate    Type = "players_update"
	TypePresenceChanged  Type = "presence:changed"
)

// Event is a single notification. AccountID scopes delivery to observers of
// that account; it is empty for events without an owner.
type Event struct {
	Type      Type      `json:"type"`
	At        time.Time `json:"at"`
	AccountID string    `json:"account_id,omitempty"`
	Payload   any       `json:"payload"`
}

type PairingPayload struct {
	PlayerID   uuid.UUID `json:"player_id"`
	CPUSerial  string    `json:"cpu_serial"`
	DeviceUUID string    `json:"device_uuid,omitempty"`
	AccountID  string    `json:"account_id"`
	Name       string    `json:"name"`
}

type PresencePayload struct {
	PlayerID  uuid.UUID  `json:"player_id"`
	CPUSerial string     `json:"cpu_serial"`
	Status    md.Status  `json:"status"`
	LastSeen  *time.Time `json:"last_seen"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

func PairingSucceeded(d *md.Device, at time.Time) Event {
	p := PairingPayload{
		PlayerID:  d.ID,
		CPUSerial: d.CPUSerial,
		Name:      d.Name,
	}
	if d.DeviceUUID != nil {
		p.DeviceUUID = *d.DeviceUUID
	}
	if d.AccountID != nil {
		p.AccountID = *d.AccountID
	}

	return Event{Type: TypePairingSucceeded, At: at, AccountID: p.AccountID, Payload: p}
}

func PresenceChanged(d *md.Device, at time.Time) Event {
	e := Event{
		Type: TypePresenceChanged,
		At:   at,
		Payload: PresencePayload{
			PlayerID:  d.ID,
			CPUSerial: d.CPUSerial,
			Status:    d.Status,
			LastSeen:  d.LastSeen,
		},
	}
	if d.AccountID != nil {
		e.AccountID = *d.AccountID
	}
	return e
}

// PlayersUpdate carries the full device list. Receivers filter it per observer.
func PlayersUpdate(devices []md.Device, at time.Time) Event {
	return Event{Type: TypePlayersUpdate, At: at, Payload: devices}
}

type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, e)
		}
	}
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
