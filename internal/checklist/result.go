package checklist

import (
	"errors"

	"github.com/aygame101/cardboard/internal/trello"
)

// OpKind classifies a remote mutation for error reporting.
type OpKind string

const (
	OpAdd    OpKind = "add"
	OpDelete OpKind = "delete"
	OpRename OpKind = "rename"
)

// User-facing failure messages.
const (
	MsgNameFailed   = "could not save checklist name"
	MsgItemsFailed  = "could not save checklist items"
	MsgDeleteFailed = "could not delete checklist"
	MsgCreateFailed = "could not create checklist"
)

var (
	// ErrPlaceholderID is returned when a remote operation needs a persisted
	// checklist but was given a local placeholder id.
	ErrPlaceholderID = errors.New("checklist is not saved yet")
	// ErrUnknownChecklist is returned when a refresh cannot find the checklist
	// on its card anymore.
	ErrUnknownChecklist = errors.New("checklist not found on card")
)

// FailedOperation describes one remote call that did not succeed. Target is
// the item id for deletes and the name for adds and renames.
type FailedOperation struct {
	Kind   OpKind `json:"kind"`
	Target string `json:"target"`
	Error  string `json:"error"`
	Err    error  `json:"-"`
}

func failed(kind OpKind, target string, err error) FailedOperation {
	return FailedOperation{Kind: kind, Target: target, Error: err.Error(), Err: err}
}

// Result summarises a reconciliation pass.
type Result struct {
	Success bool               `json:"success"`
	Deleted []string           `json:"deleted"`
	Added   []trello.CheckItem `json:"added"`
	Failed  []FailedOperation  `json:"failedOperations"`
}

// Failures returns the failed operations of the given kind.
func (r Result) Failures(kind OpKind) []FailedOperation {
	var out []FailedOperation
	for _, op := range r.Failed {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *Result) finish() {
	if r.Deleted == nil {
		r.Deleted = []string{}
	}
	if r.Added == nil {
		r.Added = []trello.CheckItem{}
	}
	if r.Failed == nil {
		r.Failed = []FailedOperation{}
	}
	r.Success = len(r.Failed) == 0
}

// CreateResult summarises a create-with-items pass.
type CreateResult struct {
	ChecklistID  string            `json:"checklistId"`
	Name         string            `json:"name"`
	ItemsCreated int               `json:"itemsCreated"`
	ItemsFailed  int               `json:"itemsFailed"`
	Failed       []FailedOperation `json:"failedOperations"`
}

// SaveOutcome is everything a save did, plus the canonical checklist the
// caller should refresh its local state from.
type SaveOutcome struct {
	ChecklistID string           `json:"checklistId"`
	Created     bool             `json:"created"`
	Renamed     bool             `json:"renamed"`
	Result      Result           `json:"result"`
	Canonical   trello.Checklist `json:"canonical"`
	Refreshed   bool             `json:"refreshed"`
	RefreshErr  string           `json:"refreshError,omitempty"`

	createErr error
	itemsErr  error
}

// Success reports whether every step of the save succeeded.
func (o SaveOutcome) Success() bool {
	return o.createErr == nil && o.itemsErr == nil && o.Result.Success
}

// Messages returns the user-facing failure lines, in a stable order.
func (o SaveOutcome) Messages() []string {
	var msgs []string
	if o.createErr != nil {
		msgs = append(msgs, MsgCreateFailed)
	}
	if len(o.Result.Failures(OpRename)) > 0 {
		msgs = append(msgs, MsgNameFailed)
	}
	if o.itemsErr != nil || len(o.Result.Failures(OpAdd)) > 0 || len(o.Result.Failures(OpDelete)) > 0 {
		msgs = append(msgs, MsgItemsFailed)
	}
	return msgs
}
