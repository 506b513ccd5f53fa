package kvstore

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrFetch = errors.New("kv fetch failed")
)
