package checklist

import (
	"context"

	"github.com/aygame101/cardboard/internal/trello"
)

// Store is the remote checklist store the service drives. Every method is a
// network call that can fail or time out.
type Store interface {
	ListChecklistsForCard(ctx context.Context, cardID string) ([]trello.Checklist, error)
	CreateChecklist(ctx context.Context, cardID, name string) (trello.Checklist, error)
	RenameChecklist(ctx context.Context, checklistID, name string) (trello.Checklist, error)
	DeleteChecklist(ctx context.Context, checklistID string) error
	ListItems(ctx context.Context, checklistID string) ([]trello.CheckItem, error)
	AddItem(ctx context.Context, checklistID, name string) (trello.CheckItem, error)
	DeleteItem(ctx context.Context, checklistID, itemID string) error
	SetItemCompletion(ctx context.Context, checklistID, itemID string, state trello.State) (trello.CheckItem, error)
}

var _ Store = (*trello.Client)(nil)
