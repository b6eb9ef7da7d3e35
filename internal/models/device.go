package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

type Device struct {
	ID                   uuid.UUID       `db:"id"                      json:"id"`
	Name                 string          `db:"name"                    json:"name"`
	CPUSerial            string          `db:"cpu_serial"              json:"cpu_serial"`
	DeviceUUID           *string         `db:"device_uuid"             json:"device_uuid"`
	Status               Status          `db:"status"                  json:"status"`
	LastSeen             *time.Time      `db:"last_seen"               json:"last_seen"`
	Config               types.JSONText  `db:"config"                  json:"config"`
	PlaylistID           *string         `db:"playlist_id"             json:"playlist_id"`
	CreatedAt            time.Time       `db:"created_at"              json:"created_at"`
	AccountID            *string         `db:"account_id"              json:"account_id"`
	PairedAt             *time.Time      `db:"paired_at"               json:"paired_at"`
	PairingCode          *string         `db:"pairing_code"            json:"pairing_code"`
	PairingCodeExpiresAt *time.Time      `db:"pairing_code_expires_at" json:"pairing_code_expires_at"`
}

// DeviceFilter narrows ListDevices. Zero values match everything.
type DeviceFilter struct {
	AccountID string
	Status    Status
}

func (f DeviceFilter) Match(d *Device) bool {
	if f.AccountID != "" && (d.AccountID == nil || *d.AccountID != f.AccountID) {
		return false
	}
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	return true
}
