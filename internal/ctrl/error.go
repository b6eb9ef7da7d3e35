package ctrl

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when required input is missing or malformed.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when a device identity is bound to another record.
var ErrAlreadyExists = errors.New("already exists")

// ErrAlreadyPaired is returned when a code is requested for a claimed device.
var ErrAlreadyPaired = errors.New("device already paired")

// ErrAlreadyClaimed is returned when a code was claimed by someone else first.
var ErrAlreadyClaimed = errors.New("device already claimed")

// ErrCodeExpired is returned when the pairing code is past its expiry.
var ErrCodeExpired = errors.New("pairing code expired")

var ErrCodeAttemptsExhausted = errors.New("could not allocate pairing code")

type AlreadyPairedError struct {
	AccountID string
}

func (e *AlreadyPairedError) Error() string {
	return fmt.Sprintf("%s to account %s", ErrAlreadyPaired.Error(), e.AccountID)
}

func (e *AlreadyPairedError) Is(target error) bool {
	return target == ErrAlreadyPaired
}
