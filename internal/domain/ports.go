package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type WatchAPI interface {
	ListWatches(ctx context.Context) ([]Watch, error)
	CreateWatch(ctx context.Context, w NewWatch) error
}

// SubmitLimiter throttles form submissions per client key.
type SubmitLimiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

var ErrUnknownField = errors.New("unknown form field")

// APIError is a non-2xx answer from the watch backend. Detail is only set
// when the body carried a string "detail".
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("watch api: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("watch api: status %d", e.Status)
}
