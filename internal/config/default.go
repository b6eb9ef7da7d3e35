package config

type ctxKey string

const (
	IdentityKey ctxKey = "identity"
)

const (
	AccessCookieName = "access"
)

const (
	PairingCodeLength   = 6
	PairingCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	DefaultPlayerName   = "Unknown Player"
)
