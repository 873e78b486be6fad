package types

import "errors"

// ErrCorruptedState marks persisted data that failed strict parsing.
// Callers are expected to reset the affected storage key only, not the
// whole database.
var ErrCorruptedState = errors.New("persisted state is corrupted")
