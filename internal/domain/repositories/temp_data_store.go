package repositories

import (
	"context"
	"errors"
)

// ErrTempDataNotFound is returned when an entry is absent, expired or already consumed.
var ErrTempDataNotFound = errors.New("temp data not found")

// TempDataStore holds submitted-but-unpaid form payloads. Take removes the entry it returns.
type TempDataStore interface {
	Put(ctx context.Context, id string, payload []byte) error
	Take(ctx context.Context, id string) ([]byte, error)
}
