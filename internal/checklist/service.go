package checklist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aygame101/cardboard/internal/trello"
)

const defaultChecklistName = "Checklist"

// Options configure a Service.
type Options struct {
	// Parallelism bounds how many item deletions run at once. Zero or one
	// keeps every call sequential. Additions are always sequential so new
	// items land in the desired order.
	Parallelism int
	Logger      *slog.Logger
}

// Service reconciles locally edited checklists against the remote store. It
// holds no checklist state of its own.
type Service struct {
	store       Store
	parallelism int
	log         *slog.Logger
}

// NewService builds a Service over store.
func NewService(store Store, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	return &Service{store: store, parallelism: parallelism, log: logger}
}

// Reconcile brings the remote items of checklistID in line with desired. The
// remote snapshot is fetched fresh first; if that fetch fails nothing is
// mutated and the error is returned. Individual call failures are reported
// in the Result, never as the returned error.
//
// Once started, a pass runs to completion even if ctx is cancelled.
func (s *Service) Reconcile(ctx context.Context, checklistID string, desired []string) (Result, error) {
	if IsPlaceholder(checklistID) {
		return Result{}, ErrPlaceholderID
	}
	ctx = context.WithoutCancel(ctx)

	remote, err := s.store.ListItems(ctx, checklistID)
	if err != nil {
		s.log.Warn("fetch checklist items failed", "checklist", checklistID, "error", err)
		return Result{}, fmt.Errorf("fetch checklist items: %w", err)
	}
	plan := Diff(remote, desired)
	s.log.Info("reconcile checklist",
		"checklist", checklistID,
		"remote", len(remote),
		"deletes", len(plan.Deletes),
		"adds", len(plan.Adds),
	)
	return s.Apply(ctx, checklistID, plan), nil
}

// Apply executes plan against checklistID: every delete first, then every
// add. A failed call never stops the others.
func (s *Service) Apply(ctx context.Context, checklistID string, plan Plan) Result {
	var res Result

	deleteErrs := s.fanOut(ctx, len(plan.Deletes), func(ctx context.Context, i int) error {
		return s.store.DeleteItem(ctx, checklistID, plan.Deletes[i].ID)
	})
	for i, err := range deleteErrs {
		item := plan.Deletes[i]
		if err != nil {
			s.log.Warn("delete check item failed", "checklist", checklistID, "item", item.ID, "name", item.Name, "error", err)
			res.Failed = append(res.Failed, failed(OpDelete, item.ID, err))
			continue
		}
		res.Deleted = append(res.Deleted, item.ID)
	}

	for _, name := range plan.Adds {
		item, err := s.store.AddItem(ctx, checklistID, name)
		if err != nil {
			s.log.Warn("add check item failed", "checklist", checklistID, "name", name, "error", err)
			res.Failed = append(res.Failed, failed(OpAdd, name, err))
			continue
		}
		res.Added = append(res.Added, item)
	}

	res.finish()
	return res
}

// fanOut runs fn for 0..n-1 and returns each call's error by index. With a
// parallelism of one the calls run in order on the calling goroutine.
func (s *Service) fanOut(ctx context.Context, n int, fn func(context.Context, int) error) []error {
	errs := make([]error, n)
	if s.parallelism <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			errs[i] = fn(ctx, i)
		}
		return errs
	}
	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// CreateWithItems creates a checklist on cardID and then adds each non-blank
// desired item to it, one at a time. If the checklist cannot be created no
// item is attempted and the error is returned. Item failures are counted and
// the remaining items are still attempted.
func (s *Service) CreateWithItems(ctx context.Context, cardID, name string, desired []string) (CreateResult, error) {
	if strings.TrimSpace(cardID) == "" {
		return CreateResult{}, fmt.Errorf("card id required")
	}
	ctx = context.WithoutCancel(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultChecklistName
	}
	created, err := s.store.CreateChecklist(ctx, cardID, name)
	if err != nil {
		s.log.Warn("create checklist failed", "card", cardID, "name", name, "error", err)
		return CreateResult{}, fmt.Errorf("create checklist: %w", err)
	}

	res := CreateResult{ChecklistID: created.ID, Name: created.Name, Failed: []FailedOperation{}}
	for _, item := range FilterDesired(desired) {
		if _, err := s.store.AddItem(ctx, created.ID, item); err != nil {
			s.log.Warn("add check item failed", "checklist", created.ID, "name", item, "error", err)
			res.ItemsFailed++
			res.Failed = append(res.Failed, failed(OpAdd, item, err))
			continue
		}
		res.ItemsCreated++
	}
	s.log.Info("created checklist",
		"card", cardID,
		"checklist", created.ID,
		"items_created", res.ItemsCreated,
		"items_failed", res.ItemsFailed,
	)
	return res, nil
}

// Delete removes a checklist from the remote store. Placeholder checklists
// only exist locally, so deleting one is a no-op.
func (s *Service) Delete(ctx context.Context, checklistID string) error {
	if IsPlaceholder(checklistID) {
		return nil
	}
	if err := s.store.DeleteChecklist(context.WithoutCancel(ctx), checklistID); err != nil {
		s.log.Warn("delete checklist failed", "checklist", checklistID, "error", err)
		return fmt.Errorf("delete checklist: %w", err)
	}
	s.log.Info("deleted checklist", "checklist", checklistID)
	return nil
}

// ToggleItem flips the completion state of an item and returns the new
// state as reported by the store.
func (s *Service) ToggleItem(ctx context.Context, checklistID, itemID string, current trello.State) (trello.State, error) {
	if IsPlaceholder(checklistID) {
		return current, ErrPlaceholderID
	}
	next := current.Toggled()
	item, err := s.store.SetItemCompletion(context.WithoutCancel(ctx), checklistID, itemID, next)
	if err != nil {
		s.log.Warn("toggle check item failed", "checklist", checklistID, "item", itemID, "error", err)
		return current, fmt.Errorf("toggle item: %w", err)
	}
	if item.State != "" {
		next = item.State
	}
	return next, nil
}

// Save runs the whole save flow for one edited checklist. A checklist with a
// placeholder id is created with its items; a persisted one is renamed when
// name differs and then reconciled. Either way the canonical checklist is
// re-fetched from cardID so the caller can refresh its local copies.
//
// The returned error is set only when nothing could be reconciled: the
// checklist could not be created, or its remote items could not be fetched.
// The outcome is populated in every case.
func (s *Service) Save(ctx context.Context, persisted trello.Checklist, cardID, name string, desired []string) (SaveOutcome, error) {
	ctx = context.WithoutCancel(ctx)
	if strings.TrimSpace(cardID) == "" {
		cardID = persisted.CardID
	}
	name = strings.TrimSpace(name)

	var out SaveOutcome
	if IsPlaceholder(persisted.ID) {
		created, err := s.CreateWithItems(ctx, cardID, name, desired)
		if err != nil {
			out.createErr = err
			out.Result.finish()
			return out, err
		}
		out.ChecklistID = created.ChecklistID
		out.Created = true
		out.Result.Failed = created.Failed
		out.Result.finish()
		s.refresh(ctx, cardID, &out)
		return out, nil
	}

	out.ChecklistID = persisted.ID
	if name != "" && name != persisted.Name {
		if _, err := s.store.RenameChecklist(ctx, persisted.ID, name); err != nil {
			s.log.Warn("rename checklist failed", "checklist", persisted.ID, "name", name, "error", err)
			out.Result.Failed = append(out.Result.Failed, failed(OpRename, name, err))
		} else {
			out.Renamed = true
		}
	}

	res, err := s.Reconcile(ctx, persisted.ID, desired)
	if err != nil {
		out.itemsErr = err
		out.Result.finish()
		s.refresh(ctx, cardID, &out)
		return out, err
	}
	res.Failed = append(out.Result.Failed, res.Failed...)
	out.Result = res
	out.Result.finish()
	s.refresh(ctx, cardID, &out)
	return out, nil
}

func (s *Service) refresh(ctx context.Context, cardID string, out *SaveOutcome) {
	canonical, err := s.Fetch(ctx, cardID, out.ChecklistID)
	if err != nil {
		s.log.Warn("refresh checklist failed", "card", cardID, "checklist", out.ChecklistID, "error", err)
		out.RefreshErr = err.Error()
		return
	}
	out.Canonical = canonical
	out.Refreshed = true
}

// Fetch returns the canonical checklist checklistID from its card.
func (s *Service) Fetch(ctx context.Context, cardID, checklistID string) (trello.Checklist, error) {
	lists, err := s.store.ListChecklistsForCard(ctx, cardID)
	if err != nil {
		return trello.Checklist{}, fmt.Errorf("fetch card checklists: %w", err)
	}
	for _, cl := range lists {
		if cl.ID == checklistID {
			return cl, nil
		}
	}
	return trello.Checklist{}, fmt.Errorf("%w: %s", ErrUnknownChecklist, checklistID)
}

// ListForCard returns every checklist of a card.
func (s *Service) ListForCard(ctx context.Context, cardID string) ([]trello.Checklist, error) {
	lists, err := s.store.ListChecklistsForCard(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("fetch card checklists: %w", err)
	}
	return lists, nil
}
