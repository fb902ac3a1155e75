// Package shop is a fixture for facade generation.
package shop

import (
	"context"
	"time"
)

type Item struct{ ID int }

type Repository interface {
	Count() int
	Format(format string, args ...any) string
	Load(ctx context.Context, id int) (*Item, error)
	Save(item Item) error
	Touch()
	Window() (time.Time, time.Time, error)
}

type Clock interface {
	Now() time.Time
}

type Box[T any] interface {
	Get() T
}
