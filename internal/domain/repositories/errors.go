package repositories

import "errors"

// Store errors. Both are benign during event processing: a duplicate key
// means the event was already applied, and a missing record means the event
// references a call this system never saw.
var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("record not found")
)
