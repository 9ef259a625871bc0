package state

import (
	"github.com/aygame101/cardboard/internal/checklist"
	"github.com/aygame101/cardboard/internal/trello"
)

// EditBuffer is the local working copy of one checklist. It keeps the
// checklist as last fetched (Persisted) next to the user's pending name and
// item names. Completion state is not edited here; toggles go straight to the
// remote and are mirrored with SetItemState on the Store.
//
// Each row remembers the persisted item it was loaded from, so rows with the
// same name still address different items. Added and retyped rows have none.
type EditBuffer struct {
	Persisted trello.Checklist
	CardID    string
	Name      string
	Items     []string

	rowIDs []string
}

// NewEditBuffer starts editing a fetched checklist.
func NewEditBuffer(cl trello.Checklist) *EditBuffer {
	b := &EditBuffer{}
	b.Reset(cl)
	return b
}

// NewDraft starts a checklist that only exists locally, under a placeholder
// id, until it is saved.
func NewDraft(cardID string) *EditBuffer {
	return &EditBuffer{
		Persisted: trello.Checklist{ID: checklist.NewPlaceholderID(), CardID: cardID},
		CardID:    cardID,
	}
}

// Reset discards the pending edits and reloads the buffer from cl, which is
// normally the canonical checklist returned by a save.
func (b *EditBuffer) Reset(cl trello.Checklist) {
	b.Persisted = cl.Clone()
	if cl.CardID != "" {
		b.CardID = cl.CardID
	}
	b.Name = cl.Name
	b.Items = cl.ItemNames()
	b.rowIDs = make([]string, len(cl.Items))
	for i, item := range cl.Items {
		b.rowIDs[i] = item.ID
	}
}

// MarkCreated records that the draft now exists remotely under id when the
// canonical checklist could not be fetched. The pending name and items are
// kept; the next save reconciles them against a fresh fetch.
func (b *EditBuffer) MarkCreated(id string) {
	b.Persisted = trello.Checklist{ID: id, CardID: b.CardID}
	for i := range b.rowIDs {
		b.rowIDs[i] = ""
	}
}

// ID returns the id of the checklist being edited.
func (b *EditBuffer) ID() string { return b.Persisted.ID }

// IsPlaceholder reports whether the checklist has never been saved.
func (b *EditBuffer) IsPlaceholder() bool { return checklist.IsPlaceholder(b.Persisted.ID) }

// SetName replaces the pending checklist name.
func (b *EditBuffer) SetName(name string) { b.Name = name }

// AddItem appends an item and returns its index.
func (b *EditBuffer) AddItem(name string) int {
	b.syncRows()
	b.Items = append(b.Items, name)
	b.rowIDs = append(b.rowIDs, "")
	return len(b.Items) - 1
}

// SetItem renames the item at i. Out of range indexes are ignored.
func (b *EditBuffer) SetItem(i int, name string) {
	if i < 0 || i >= len(b.Items) {
		return
	}
	b.syncRows()
	if b.Items[i] != name {
		b.rowIDs[i] = ""
	}
	b.Items[i] = name
}

// RemoveItem drops the item at i. Out of range indexes are ignored.
func (b *EditBuffer) RemoveItem(i int) {
	if i < 0 || i >= len(b.Items) {
		return
	}
	b.syncRows()
	b.Items = append(b.Items[:i:i], b.Items[i+1:]...)
	b.rowIDs = append(b.rowIDs[:i:i], b.rowIDs[i+1:]...)
}

// Move shifts the item at i by delta positions and returns its new index.
func (b *EditBuffer) Move(i, delta int) int {
	if i < 0 || i >= len(b.Items) {
		return i
	}
	j := i + delta
	if j < 0 {
		j = 0
	}
	if j >= len(b.Items) {
		j = len(b.Items) - 1
	}
	b.syncRows()
	move(b.Items, i, j)
	move(b.rowIDs, i, j)
	return j
}

func move[T any](s []T, i, j int) {
	v := s[i]
	if j < i {
		copy(s[j+1:i+1], s[j:i])
	} else {
		copy(s[i:j], s[i+1:j+1])
	}
	s[j] = v
}

// Names returns a copy of the pending item names.
func (b *EditBuffer) Names() []string {
	out := make([]string, len(b.Items))
	copy(out, b.Items)
	return out
}

// Dirty reports whether the buffer differs from the persisted checklist.
// Item order counts here even though a save ignores it.
func (b *EditBuffer) Dirty() bool {
	if b.IsPlaceholder() {
		return true
	}
	if b.Name != b.Persisted.Name {
		return true
	}
	persisted := b.Persisted.ItemNames()
	if len(persisted) != len(b.Items) {
		return true
	}
	for i := range persisted {
		if persisted[i] != b.Items[i] {
			return true
		}
	}
	return false
}

// SetState records a completion change for a persisted item.
func (b *EditBuffer) SetState(itemID string, state trello.State) {
	for i := range b.Persisted.Items {
		if b.Persisted.Items[i].ID == itemID {
			b.Persisted.Items[i].State = state
			return
		}
	}
}

// RowID returns the id of the persisted item shown on row i. Rows added or
// retyped since the last Reset have no id.
func (b *EditBuffer) RowID(i int) (string, bool) {
	b.syncRows()
	if i < 0 || i >= len(b.rowIDs) || b.rowIDs[i] == "" {
		return "", false
	}
	return b.rowIDs[i], true
}

// RowState returns the persisted completion state of row i, or incomplete
// for rows without a persisted item.
func (b *EditBuffer) RowState(i int) trello.State {
	id, ok := b.RowID(i)
	if !ok {
		return trello.StateIncomplete
	}
	for _, item := range b.Persisted.Items {
		if item.ID == id {
			return item.State
		}
	}
	return trello.StateIncomplete
}

// syncRows drops the row ids if Items was replaced directly.
func (b *EditBuffer) syncRows() {
	if len(b.rowIDs) != len(b.Items) {
		b.rowIDs = make([]string, len(b.Items))
	}
}
