package repo

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrCodeTaken is returned when another device already holds the pairing code.
	ErrCodeTaken = errors.New("pairing code taken")
	// ErrConflict is returned when a conditional update matched no row.
	ErrConflict = errors.New("conflict")
)
