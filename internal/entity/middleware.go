package entity

import (
	"context"

	"github.com/Makepad-fr/tada/internal/model"
)

// Op names a collaborator call for middleware.
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Middleware observes one call. next performs it and reports the response's
// success flag alongside the error.
type Middleware func(ctx context.Context, op Op, next func(context.Context) (bool, error)) (bool, error)

// Wrap decorates c with mws, outermost first. The result implements Deleter
// only when c does, so the optional capability survives wrapping.
func Wrap(c Client, mws ...Middleware) Client {
	if len(mws) == 0 {
		return c
	}
	w := &wrapped{next: c, mw: chain(mws)}
	if d, ok := c.(Deleter); ok {
		return &wrappedDeleter{wrapped: w, del: d}
	}
	return w
}

func chain(mws []Middleware) Middleware {
	return func(ctx context.Context, op Op, next func(context.Context) (bool, error)) (bool, error) {
		call := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw, inner := mws[i], call
			call = func(ctx context.Context) (bool, error) { return mw(ctx, op, inner) }
		}
		return call(ctx)
	}
}

type wrapped struct {
	next Client
	mw   Middleware
}

func (w *wrapped) List(ctx context.Context) (Response[[]model.Item], error) {
	var resp Response[[]model.Item]
	_, err := w.mw(ctx, OpList, func(ctx context.Context) (bool, error) {
		var err error
		resp, err = w.next.List(ctx)
		return resp.Success, err
	})
	return resp, err
}

func (w *wrapped) Create(ctx context.Context, in model.NewItem) (Response[model.Item], error) {
	var resp Response[model.Item]
	_, err := w.mw(ctx, OpCreate, func(ctx context.Context) (bool, error) {
		var err error
		resp, err = w.next.Create(ctx, in)
		return resp.Success, err
	})
	return resp, err
}

func (w *wrapped) Update(ctx context.Context, id string, p model.Patch) (Response[model.Item], error) {
	var resp Response[model.Item]
	_, err := w.mw(ctx, OpUpdate, func(ctx context.Context) (bool, error) {
		var err error
		resp, err = w.next.Update(ctx, id, p)
		return resp.Success, err
	})
	return resp, err
}

type wrappedDeleter struct {
	*wrapped
	del Deleter
}

func (w *wrappedDeleter) Delete(ctx context.Context, id string) (Ack, error) {
	var resp Ack
	_, err := w.mw(ctx, OpDelete, func(ctx context.Context) (bool, error) {
		var err error
		resp, err = w.del.Delete(ctx, id)
		return resp.Success, err
	})
	return resp, err
}
