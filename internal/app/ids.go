package app

import "github.com/google/uuid"

// newGameID returns a random UUIDv4 string.
func newGameID() string { return uuid.NewString() }
