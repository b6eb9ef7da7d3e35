package models

import (
	"errors"
	"time"
)

var (
	// ErrInvalidPairingState is returned when the stored columns describe a
	// device that is both pending and paired.
	ErrInvalidPairingState = errors.New("invalid pairing state")
	// ErrInvalidTransition is returned for a pairing transition that is not allowed.
	ErrInvalidTransition = errors.New("invalid pairing transition")
)

// PairingState is one of Unpaired, CodeIssued or Paired.
type PairingState interface {
	isPairingState()
}

type Unpaired struct{}

type CodeIssued struct {
	Code      string
	ExpiresAt time.Time
}

type Paired struct {
	AccountID string
	PairedAt  time.Time
}

func (Unpaired) isPairingState()   {}
func (CodeIssued) isPairingState() {}
func (Paired) isPairingState()     {}

// Expired reports whether the code is past its expiry at now.
func (c CodeIssued) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// PairingState derives the pairing state from the nullable columns.
func (d *Device) PairingState() (PairingState, error) {
	paired := d.AccountID != nil && d.PairedAt != nil
	pending := d.PairingCode != nil

	switch {
	case paired && pending:
		return nil, ErrInvalidPairingState
	case paired:
		return Paired{AccountID: *d.AccountID, PairedAt: *d.PairedAt}, nil
	case pending:
		s := CodeIssued{Code: *d.PairingCode}
		if d.PairingCodeExpiresAt != nil {
			s.ExpiresAt = *d.PairingCodeExpiresAt
		}
		return s, nil
	default:
		return Unpaired{}, nil
	}
}

// IsPaired reports whether the device has been claimed by an account.
func (d *Device) IsPaired() bool {
	s, err := d.PairingState()
	if err != nil {
		return true
	}
	_, ok := s.(Paired)
	return ok
}

// ApplyPairing validates the transition from the current state to s and
// writes the matching columns, clearing the ones that belong to other states.
func (d *Device) ApplyPairing(s PairingState) error {
	cur, err := d.PairingState()
	if err != nil {
		return err
	}

	if err = ValidateTransition(cur, s); err != nil {
		return err
	}

	switch v := s.(type) {
	case CodeIssued:
		code, exp := v.Code, v.ExpiresAt
		d.PairingCode, d.PairingCodeExpiresAt = &code, &exp
		d.AccountID, d.PairedAt = nil, nil
	case Paired:
		acc, at := v.AccountID, v.PairedAt
		d.AccountID, d.PairedAt = &acc, &at
		d.PairingCode, d.PairingCodeExpiresAt = nil, nil
	}

	return nil
}

// ValidateTransition allows Unpaired->CodeIssued, CodeIssued->CodeIssued
// (renewal) and CodeIssued->Paired. Paired is final for this service.
func ValidateTransition(from, to PairingState) error {
	switch from.(type) {
	case Unpaired:
		if v, ok := to.(CodeIssued); ok && v.Code != "" {
			return nil
		}
	case CodeIssued:
		switch v := to.(type) {
		case CodeIssued:
			if v.Code != "" {
				return nil
			}
		case Paired:
			if v.AccountID != "" {
				return nil
			}
		}
	}

	return ErrInvalidTransition
}
