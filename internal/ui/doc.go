// Package ui provides the Bubble Tea checklist editor for cardboard.
//
// # Overview
//
// The editor works on one card. It opens on the list of the card's
// checklists; enter opens one into a local edit buffer where the name and
// the items can be changed. Nothing reaches the remote until s is pressed.
//
// # Views
//
//   - Checklists: the card's checklists with done/total counts
//   - Editor: name row plus one row per item; [+] marks unsaved items
//
// # Saving
//
// A save snapshots the edit buffer and hands it to Backend.Save in a
// tea.Cmd. The save binding is disabled until the savedMsg arrives, so one
// checklist never has two saves in flight from the editor. When the outcome
// carries the canonical checklist the buffer is reset from it. Failure lines
// from the outcome are shown in the footer as they are:
//
//	! could not save checklist name
//	! could not save checklist items
//
// A failed delete shows "could not delete checklist".
//
// # Keyboard Shortcuts
//
// See keys.go for the full map. Press ? in the editor for the overlay.
//
// # Theming
//
// T cycles Nightfox, Kanagawa and Slate. The choice is written to the prefs
// file immediately.
package ui
