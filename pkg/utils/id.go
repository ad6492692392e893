package utils

import "github.com/google/uuid"

// NewID returns a UUIDv7 string; ids sort in creation order.
func NewID() string { return uuid.Must(uuid.NewV7()).String() }
