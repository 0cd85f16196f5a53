// Package entity defines the collaborator contract the todo view persists
// through, plus the shared pieces the storage backends are built from.
package entity

import (
	"context"
	"errors"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrNotFound is returned by backends when an id does not exist.
// Clients report it as Success: false rather than as an error.
var ErrNotFound = errors.New("item not found")

// Response carries the logical outcome of a call. Success is independent of
// transport failures, which are reported through the returned error.
type Response[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// Ack is the response of calls that return no data.
type Ack = Response[struct{}]

// OK wraps data in a successful response.
func OK[T any](data T) Response[T] { return Response[T]{Success: true, Data: data} }

// Failed is a response whose success flag is false.
func Failed[T any]() Response[T] { return Response[T]{} }

// Client is the list/create/update surface every backend provides.
type Client interface {
	List(ctx context.Context) (Response[[]model.Item], error)
	Create(ctx context.Context, in model.NewItem) (Response[model.Item], error)
	Update(ctx context.Context, id string, p model.Patch) (Response[model.Item], error)
}

// Deleter is the optional delete capability. Callers type-assert for it and
// skip the call when a client does not implement it.
type Deleter interface {
	Delete(ctx context.Context, id string) (Ack, error)
}

// ClientDeleter is a Client that can also delete.
type ClientDeleter interface {
	Client
	Deleter
}

// DeleterOf returns the client's delete capability, if any.
func DeleterOf(c Client) (Deleter, bool) {
	d, ok := c.(Deleter)
	return d, ok
}
