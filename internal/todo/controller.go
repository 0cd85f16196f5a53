package todo

import (
	"context"
	"strings"

	"github.com/Makepad-fr/tada/internal/entity"
	"github.com/Makepad-fr/tada/internal/model"
)

// Controller issues exactly one collaborator call per user action and turns
// the response into a Result. It holds no state of its own.
type Controller struct {
	client entity.Client
}

// NewController returns a controller over client.
func NewController(client entity.Client) *Controller {
	return &Controller{client: client}
}

// LoadAll fetches the full list.
func (c *Controller) LoadAll(ctx context.Context) Result {
	resp, err := c.client.List(ctx)
	return Result{Op: OpLoad, Items: resp.Data, Success: resp.Success, Err: err}
}

// Add creates an item titled text. Blank text is rejected without a call;
// otherwise text is sent as typed.
func (c *Controller) Add(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Op: OpAdd, Rejected: true}
	}
	resp, err := c.client.Create(ctx, model.NewItem{Title: text, Completed: false})
	return Result{Op: OpAdd, Item: resp.Data, Success: resp.Success, Err: err}
}

// Toggle asks the store to set completed to !completed for id. completed is
// the value the caller saw, not re-read from state.
func (c *Controller) Toggle(ctx context.Context, id string, completed bool) Result {
	want := !completed
	resp, err := c.client.Update(ctx, id, model.SetCompleted(want))
	return Result{Op: OpToggle, ID: id, Completed: want, Success: resp.Success, Err: err}
}

// Remove deletes id when the client can delete; otherwise the call is skipped.
func (c *Controller) Remove(ctx context.Context, id string) Result {
	d, ok := entity.DeleterOf(c.client)
	if !ok {
		return Result{Op: OpRemove, ID: id, Success: true}
	}
	resp, err := d.Delete(ctx, id)
	return Result{Op: OpRemove, ID: id, Success: resp.Success, Err: err}
}
