// Package state holds the in-memory working state of a cardboard session.
//
// # Overview
//
// Two types live here. Store caches the checklists of the card being edited
// and tracks which checklists have a save in flight. EditBuffer is the local
// working copy of one checklist: the persisted version as last fetched plus
// the pending name and item names typed by the user.
//
// # Save Flow
//
//	EditBuffer ──Names()──→ checklist.Service.Save ──→ remote calls
//	     ↑                                                  │
//	     └──── Reset(canonical) ←── Store.Replace ←─────────┘
//
// A save diffs the buffer against a freshly fetched remote snapshot, issues
// the minimal set of item calls and re-fetches the canonical checklist. The
// canonical checklist then replaces both the cached copy in Store and the
// contents of the buffer.
//
// # Save Guard
//
// BeginSave and EndSave bracket a save. BeginSave returns ErrSaveInProgress
// when the same checklist is already saving, so at most one reconciliation
// per checklist runs at a time. Different checklists do not block each
// other.
//
// # Concurrency Model
//
// Store is guarded by a sync.RWMutex and is safe to use from the UI and from
// background save commands at once. Snapshot returns deep copies. The zero
// value is ready to use.
//
// EditBuffer is not synchronised. It belongs to the UI goroutine; saves get a
// copy of its names.
package state
