package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"

	md "github.com/JMURv/player-pairing/internal/models"
)

type GenerateRequest struct {
	CPUSerial  string `json:"cpu_serial"  validate:"required,max=128"`
	DeviceUUID string `json:"device_uuid" validate:"required,max=128"`
}

type GenerateResponse struct {
	PairingCode string    `json:"pairing_code"`
	ExpiresAt   time.Time `json:"expires_at"`
	QRData      string    `json:"qr_data"`
	PlayerID    uuid.UUID `json:"player_id"`
}

type VerifyRequest struct {
	PairingCode string `json:"pairing_code" validate:"required"`
	AccountID   string `json:"account_id"`
	DeviceName  string `json:"device_name"  validate:"max=255"`
}

type VerifyResponse struct {
	Success bool       `json:"success"`
	Player  *md.Device `json:"player"`
}

// StatusResponse is the pairing status seen by a booting device. Paired
// devices carry their assignment, pending ones the active code.
type StatusResponse struct {
	Paired      bool            `json:"paired"`
	AccountID   *string         `json:"account_id,omitempty"`
	PlayerID    *uuid.UUID      `json:"player_id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Config      *types.JSONText `json:"config,omitempty"`
	PlaylistID  *string         `json:"playlist_id,omitempty"`
	PairingCode *string         `json:"pairing_code,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
}

type AlreadyPairedResponse struct {
	Error     string `json:"error"`
	Paired    bool   `json:"paired"`
	AccountID string `json:"account_id"`
}
