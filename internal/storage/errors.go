package storage

import "errors"

var (
	// ErrNotFound covers lookups of sessions, operators and marketplaces by id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStage rejects stage names outside the fixed set before any write.
	ErrInvalidStage = errors.New("invalid stage")

	// ErrInvalidSession rejects session creation with num_orders <= 0 or
	// packers_count < 1.
	ErrInvalidSession = errors.New("invalid session")
)
