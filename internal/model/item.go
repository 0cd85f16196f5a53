package model

// Item is the domain model for a todo entry.
// ID is assigned by the store that persisted it; Title never changes after creation.
type Item struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// NewItem is the create payload sent to the entity client.
type NewItem struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Patch is the update payload. Only completed is mutable.
type Patch struct {
	Completed *bool `json:"completed,omitempty"`
}

// SetCompleted builds a patch that sets completed to v.
func SetCompleted(v bool) Patch { return Patch{Completed: &v} }

// Apply returns it with the patch fields applied.
func (p Patch) Apply(it Item) Item {
	if p.Completed != nil {
		it.Completed = *p.Completed
	}
	return it
}
