package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aygame101/cardboard/internal/trello"
)

// ErrSaveInProgress is returned by BeginSave when the checklist already has
// a save running.
var ErrSaveInProgress = errors.New("save already in progress")

// Snapshot is the cached view of one card's checklists.
type Snapshot struct {
	CardID              string
	Checklists          []trello.Checklist
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple
// refreshes in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Find returns the cached checklist with the given id.
func (s Snapshot) Find(id string) (trello.Checklist, bool) {
	for _, cl := range s.Checklists {
		if cl.ID == id {
			return cl, true
		}
	}
	return trello.Checklist{}, false
}

// Store holds the card-level checklist cache and the set of checklists with
// a save in flight.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	saving   map[string]struct{}
}

// Update replaces the cached checklists for cardID. When err is non-nil the
// previous data is kept but the error is recorded for visibility.
func (s *Store) Update(cardID string, checklists []trello.Checklist, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.CardID = cardID
	s.snapshot.Checklists = cloneChecklists(checklists)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Replace swaps one cached checklist for its canonical version, appending it
// when it is not cached yet. replacedID is the id the checklist had before
// the save (a placeholder for new checklists); it may equal canonical.ID.
func (s *Store) Replace(replacedID string, canonical trello.Checklist) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cl := range s.snapshot.Checklists {
		if cl.ID == replacedID || cl.ID == canonical.ID {
			s.snapshot.Checklists[i] = canonical.Clone()
			s.snapshot.LastUpdated = time.Now()
			return
		}
	}
	s.snapshot.Checklists = append(s.snapshot.Checklists, canonical.Clone())
	s.snapshot.LastUpdated = time.Now()
}

// Remove drops a checklist from the cache.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cl := range s.snapshot.Checklists {
		if cl.ID == id {
			s.snapshot.Checklists = append(s.snapshot.Checklists[:i:i], s.snapshot.Checklists[i+1:]...)
			s.snapshot.LastUpdated = time.Now()
			return
		}
	}
}

// SetItemState updates one cached item's completion state.
func (s *Store) SetItemState(checklistID, itemID string, state trello.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snapshot.Checklists {
		if s.snapshot.Checklists[i].ID != checklistID {
			continue
		}
		items := s.snapshot.Checklists[i].Items
		for j := range items {
			if items[j].ID == itemID {
				items[j].State = state
				return
			}
		}
	}
}

// BeginSave marks checklistID as saving. It fails if a save for the same
// checklist is already running; EndSave must follow every successful call.
func (s *Store) BeginSave(checklistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saving == nil {
		s.saving = make(map[string]struct{})
	}
	if _, busy := s.saving[checklistID]; busy {
		return fmt.Errorf("checklist %s: %w", checklistID, ErrSaveInProgress)
	}
	s.saving[checklistID] = struct{}{}
	return nil
}

// EndSave clears the saving mark set by BeginSave.
func (s *Store) EndSave(checklistID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saving, checklistID)
}

// Saving reports whether checklistID has a save in flight.
func (s *Store) Saving(checklistID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, busy := s.saving[checklistID]
	return busy
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Checklists = cloneChecklists(s.snapshot.Checklists)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneChecklists(lists []trello.Checklist) []trello.Checklist {
	if len(lists) == 0 {
		return nil
	}
	dup := make([]trello.Checklist, len(lists))
	for i, cl := range lists {
		dup[i] = cl.Clone()
	}
	return dup
}
