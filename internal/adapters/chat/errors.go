package chat

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrHistory = errors.New("chat history fetch failed")
	ErrPublish = errors.New("chat publish failed")
)
