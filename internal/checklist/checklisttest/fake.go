// Package checklisttest provides an in-memory checklist store for tests.
package checklisttest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/aygame101/cardboard/internal/trello"
)

// ErrInjected is the error returned by calls registered with Fail.
var ErrInjected = errors.New("injected failure")

// Call records one store invocation. Target is the checklist id, item id or
// name the call was about, depending on the method.
type Call struct {
	Method string
	Target string
}

// Store is an in-memory stand-in for the remote checklist store. IDs are
// assigned sequentially ("1", "2", ...) across checklists and items.
type Store struct {
	mu         sync.Mutex
	nextID     int
	cards      map[string][]string // card id -> checklist ids
	checklists map[string]*trello.Checklist
	failures   map[Call]error
	calls      []Call

	boards []trello.Board
	lists  map[string][]trello.List // board id -> lists
	deck   map[string][]trello.Card // list id -> cards
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		cards:      make(map[string][]string),
		checklists: make(map[string]*trello.Checklist),
		failures:   make(map[Call]error),
		lists:      make(map[string][]trello.List),
		deck:       make(map[string][]trello.Card),
	}
}

// SeedBoard registers a board with one list holding cards with the given ids.
func (s *Store) SeedBoard(boardID, listID string, cardIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards = append(s.boards, trello.Board{ID: boardID, Name: "Board " + boardID})
	s.lists[boardID] = append(s.lists[boardID], trello.List{ID: listID, Name: "List " + listID, BoardID: boardID})
	for _, id := range cardIDs {
		s.deck[listID] = append(s.deck[listID], trello.Card{ID: id, Name: "Card " + id, ListID: listID, BoardID: boardID})
	}
}

// Seed adds a checklist with the given items to cardID and returns it.
// Item ids continue the store's sequence.
func (s *Store) Seed(cardID, name string, items ...string) trello.Checklist {
	s.mu.Lock()
	defer s.mu.Unlock()
	cl := s.newChecklistLocked(cardID, name)
	for _, item := range items {
		s.addItemLocked(cl, item)
	}
	return cl.Clone()
}

// SeedItem appends one item to an existing checklist with an explicit
// completion state.
func (s *Store) SeedItem(checklistID, name string, state trello.State) trello.CheckItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	cl := s.checklists[checklistID]
	item := s.addItemLocked(cl, name)
	cl.Items[len(cl.Items)-1].State = state
	item.State = state
	return item
}

// Fail makes every later call of method with target return err (ErrInjected
// when err is nil).
func (s *Store) Fail(method, target string, err error) {
	if err == nil {
		err = ErrInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[Call{Method: method, Target: target}] = err
}

// Calls returns a copy of the recorded calls.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the recorded calls of method.
func (s *Store) CallsTo(method string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the call log.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Checklist returns the current state of a checklist.
func (s *Store) Checklist(id string) (trello.Checklist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cl, ok := s.checklists[id]
	if !ok {
		return trello.Checklist{}, false
	}
	return cl.Clone(), true
}

func (s *Store) record(method, target string) error {
	call := Call{Method: method, Target: target}
	s.calls = append(s.calls, call)
	return s.failures[call]
}

func (s *Store) id() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

func (s *Store) newChecklistLocked(cardID, name string) *trello.Checklist {
	cl := &trello.Checklist{ID: s.id(), Name: name, CardID: cardID}
	s.checklists[cl.ID] = cl
	s.cards[cardID] = append(s.cards[cardID], cl.ID)
	return cl
}

func (s *Store) addItemLocked(cl *trello.Checklist, name string) trello.CheckItem {
	item := trello.CheckItem{
		ID:          s.id(),
		Name:        name,
		State:       trello.StateIncomplete,
		ChecklistID: cl.ID,
		Pos:         float64(len(cl.Items)+1) * 16384,
	}
	cl.Items = append(cl.Items, item)
	return item
}

// ListBoards returns the seeded boards.
func (s *Store) ListBoards(_ context.Context) ([]trello.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListBoards", ""); err != nil {
		return nil, err
	}
	return append([]trello.Board{}, s.boards...), nil
}

// ListLists returns the seeded lists of boardID.
func (s *Store) ListLists(_ context.Context, boardID string) ([]trello.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListLists", boardID); err != nil {
		return nil, err
	}
	return append([]trello.List{}, s.lists[boardID]...), nil
}

// ListCards returns the seeded cards of listID.
func (s *Store) ListCards(_ context.Context, listID string) ([]trello.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListCards", listID); err != nil {
		return nil, err
	}
	return append([]trello.Card{}, s.deck[listID]...), nil
}

// ListChecklistsForCard implements checklist.Store.
func (s *Store) ListChecklistsForCard(_ context.Context, cardID string) ([]trello.Checklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListChecklistsForCard", cardID); err != nil {
		return nil, err
	}
	out := make([]trello.Checklist, 0, len(s.cards[cardID]))
	for _, id := range s.cards[cardID] {
		out = append(out, s.checklists[id].Clone())
	}
	return out, nil
}

// CreateChecklist implements checklist.Store.
func (s *Store) CreateChecklist(_ context.Context, cardID, name string) (trello.Checklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateChecklist", name); err != nil {
		return trello.Checklist{}, err
	}
	return s.newChecklistLocked(cardID, name).Clone(), nil
}

// RenameChecklist implements checklist.Store.
func (s *Store) RenameChecklist(_ context.Context, checklistID, name string) (trello.Checklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("RenameChecklist", checklistID); err != nil {
		return trello.Checklist{}, err
	}
	cl, ok := s.checklists[checklistID]
	if !ok {
		return trello.Checklist{}, notFound("checklist", checklistID)
	}
	cl.Name = name
	return trello.Checklist{ID: cl.ID, Name: cl.Name, CardID: cl.CardID}, nil
}

// DeleteChecklist implements checklist.Store.
func (s *Store) DeleteChecklist(_ context.Context, checklistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteChecklist", checklistID); err != nil {
		return err
	}
	cl, ok := s.checklists[checklistID]
	if !ok {
		return notFound("checklist", checklistID)
	}
	delete(s.checklists, checklistID)
	ids := s.cards[cl.CardID]
	for i, id := range ids {
		if id == checklistID {
			s.cards[cl.CardID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// ListItems implements checklist.Store.
func (s *Store) ListItems(_ context.Context, checklistID string) ([]trello.CheckItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListItems", checklistID); err != nil {
		return nil, err
	}
	cl, ok := s.checklists[checklistID]
	if !ok {
		return nil, notFound("checklist", checklistID)
	}
	return cl.Clone().Items, nil
}

// AddItem implements checklist.Store.
func (s *Store) AddItem(_ context.Context, checklistID, name string) (trello.CheckItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("AddItem", name); err != nil {
		return trello.CheckItem{}, err
	}
	cl, ok := s.checklists[checklistID]
	if !ok {
		return trello.CheckItem{}, notFound("checklist", checklistID)
	}
	return s.addItemLocked(cl, name), nil
}

// DeleteItem implements checklist.Store.
func (s *Store) DeleteItem(_ context.Context, checklistID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteItem", itemID); err != nil {
		return err
	}
	cl, ok := s.checklists[checklistID]
	if !ok {
		return notFound("checklist", checklistID)
	}
	for i, item := range cl.Items {
		if item.ID == itemID {
			cl.Items = append(cl.Items[:i:i], cl.Items[i+1:]...)
			return nil
		}
	}
	return notFound("check item", itemID)
}

// SetItemCompletion implements checklist.Store.
func (s *Store) SetItemCompletion(_ context.Context, checklistID, itemID string, state trello.State) (trello.CheckItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("SetItemCompletion", itemID); err != nil {
		return trello.CheckItem{}, err
	}
	cl, ok := s.checklists[checklistID]
	if !ok {
		return trello.CheckItem{}, notFound("checklist", checklistID)
	}
	for i := range cl.Items {
		if cl.Items[i].ID == itemID {
			cl.Items[i].State = state
			return cl.Items[i], nil
		}
	}
	return trello.CheckItem{}, notFound("check item", itemID)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s not found", kind, id)
}
