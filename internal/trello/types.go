package trello

import "strings"

// State is the completion state of a check item.
type State string

const (
	StateComplete   State = "complete"
	StateIncomplete State = "incomplete"
)

// Toggled returns the opposite completion state. Anything that is not
// complete toggles to complete.
func (s State) Toggled() State {
	if s == StateComplete {
		return StateIncomplete
	}
	return StateComplete
}

// ParseState accepts the wire values plus a few human spellings.
func ParseState(value string) (State, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "complete", "completed", "done", "true":
		return StateComplete, true
	case "incomplete", "open", "todo", "false":
		return StateIncomplete, true
	default:
		return "", false
	}
}

// Board mirrors the subset of /1/members/me/boards the client uses.
type Board struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
	URL    string `json:"url"`
}

// List mirrors a board list.
type List struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	BoardID string  `json:"idBoard"`
	Closed  bool    `json:"closed"`
	Pos     float64 `json:"pos"`
}

// Card mirrors a card on a list.
type Card struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Desc         string   `json:"desc"`
	ListID       string   `json:"idList"`
	BoardID      string   `json:"idBoard"`
	ChecklistIDs []string `json:"idChecklists"`
	Closed       bool     `json:"closed"`
}

// Checklist is a named, ordered collection of check items attached to a card.
type Checklist struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	CardID string      `json:"idCard"`
	Items  []CheckItem `json:"checkItems"`
}

// Clone returns a deep copy of the checklist.
func (c Checklist) Clone() Checklist {
	dup := c
	if c.Items != nil {
		dup.Items = make([]CheckItem, len(c.Items))
		copy(dup.Items, c.Items)
	}
	return dup
}

// ItemNames returns the item names in order.
func (c Checklist) ItemNames() []string {
	names := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		names = append(names, item.Name)
	}
	return names
}

// CheckItem is a single entry on a checklist. IDs are only ever assigned by
// the remote store.
type CheckItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	State       State   `json:"state"`
	ChecklistID string  `json:"idChecklist"`
	Pos         float64 `json:"pos"`
}

// Complete reports whether the item is checked off.
func (i CheckItem) Complete() bool {
	return i.State == StateComplete
}
