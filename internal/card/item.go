package card

// Item is one studyable (or container) unit as supplied by the
// ingestion pipeline. Items are immutable during a session except for
// in-place replacement after an edit.
type Item struct {
	ID       string   `json:"id"`
	Kind     ItemKind `json:"kind"`
	ParentID string   `json:"parent_id,omitempty"` // Container that owns this leaf, if any.
	Path     string   `json:"path"`                // Source document path, slash-separated.
}

// ParentKey returns the sibling-group key for the item: the explicit
// parent id when present, otherwise the item's own id (a group of one).
func (it Item) ParentKey() string {
	if it.ParentID != "" {
		return it.ParentID
	}
	return it.ID
}
