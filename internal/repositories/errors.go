package repositories

import "errors"

// ErrNotFound is returned when a record does not exist. Owner-scoped lookups
// also return it when the record exists but belongs to someone else, so the
// two cases are indistinguishable to callers.
var ErrNotFound = errors.New("record not found")
