package payments

import (
	"errors"
	"fmt"
)

// ErrNotFound is the class error for a required local entity that is absent.
// Entity-specific sentinels wrap it so callers can match either the class or
// the exact entity. A missing record is a distinct condition from a record
// that exists but fails a readiness gate.
var ErrNotFound = errors.New("record not found")

var (
	ErrProjectNotFound        = fmt.Errorf("project: %w", ErrNotFound)
	ErrUserNotFound           = fmt.Errorf("user: %w", ErrNotFound)
	ErrSubscriptionNotFound   = fmt.Errorf("subscription: %w", ErrNotFound)
	ErrConnectAccountNotFound = fmt.Errorf("connect account: %w", ErrNotFound)
)

// Readiness gate rejections. These carry no structure beyond the kind.
var (
	ErrProjectNotReady = errors.New("project is not ready to receive subscriptions")
	ErrUserNotReady    = errors.New("user has no usable payment source")
)
