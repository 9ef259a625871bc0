package app

import (
	"context"
	"strings"

	"github.com/aygame101/cardboard/internal/checklist"
	"github.com/aygame101/cardboard/internal/trello"
)

// Load fetches the checklists of cardID and records them in the cache. On
// failure the previous cache contents are kept.
func (a *App) Load(ctx context.Context, cardID string) ([]trello.Checklist, error) {
	lists, err := a.Checklists.ListForCard(ctx, cardID)
	if err != nil {
		a.Cache.Update(cardID, nil, err)
		a.Log.Warn("load card checklists failed", "card", cardID, "error", err)
		return nil, err
	}
	a.Cache.Update(cardID, lists, nil)
	return lists, nil
}

// Save runs a guarded save of one edited checklist. A second save of the same
// checklist while the first is running fails with state.ErrSaveInProgress.
// When the canonical checklist could be re-fetched it replaces the cached
// copy; the caller resets its edit buffer from outcome.Canonical. A created
// checklist that could not be re-fetched is cached under its real id only.
func (a *App) Save(ctx context.Context, persisted trello.Checklist, cardID, name string, items []string) (checklist.SaveOutcome, error) {
	if err := a.Cache.BeginSave(persisted.ID); err != nil {
		return checklist.SaveOutcome{}, err
	}
	defer a.Cache.EndSave(persisted.ID)

	out, err := a.Checklists.Save(ctx, persisted, cardID, name, items)
	switch {
	case out.Refreshed:
		a.Cache.Replace(persisted.ID, out.Canonical)
	case out.Created:
		if cardID == "" {
			cardID = persisted.CardID
		}
		a.Cache.Replace(persisted.ID, trello.Checklist{ID: out.ChecklistID, Name: strings.TrimSpace(name), CardID: cardID})
		a.Log.Warn("created checklist not refreshed", "checklist", out.ChecklistID, "error", out.RefreshErr)
	}
	return out, err
}

// Create makes a new checklist with items on cardID.
func (a *App) Create(ctx context.Context, cardID, name string, items []string) (checklist.CreateResult, error) {
	return a.Checklists.CreateWithItems(ctx, cardID, name, items)
}

// Delete removes a checklist remotely and from the cache.
func (a *App) Delete(ctx context.Context, checklistID string) error {
	if err := a.Checklists.Delete(ctx, checklistID); err != nil {
		return err
	}
	a.Cache.Remove(checklistID)
	return nil
}

// Toggle flips one item's completion and mirrors the new state in the cache.
func (a *App) Toggle(ctx context.Context, checklistID, itemID string, current trello.State) (trello.State, error) {
	next, err := a.Checklists.ToggleItem(ctx, checklistID, itemID, current)
	if err != nil {
		return current, err
	}
	a.Cache.SetItemState(checklistID, itemID, next)
	return next, nil
}
