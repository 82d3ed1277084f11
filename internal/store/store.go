// Package store defines where session snapshots are persisted.
package store

import (
	"context"
	"errors"

	"github.com/scoreit/scoreit"
)

// ErrNotFound is returned by Load when nothing was saved yet.
var ErrNotFound = errors.New("no saved session")

type Store interface {
	Save(ctx context.Context, snap scoreit.Snapshot) error
	Load(ctx context.Context) (scoreit.Snapshot, error)
}
