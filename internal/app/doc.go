// Package app is the composition root for cardboard.
//
// # Overview
//
// New wires configuration, logging, the task board API client, the
// checklist service and the session cache. Both the command line and the
// editor go through the resulting App, so a save from either path takes the
// same guarded route.
//
// # Initialization
//
//	┌──────────────┐
//	│   New()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()           Read config.toml + environment
//	       ├─────> prefs.Load()            Theme, last card
//	       ├─────> logging.Open()          Append to cardboard.log
//	       ├─────> trello.NewClient()      HTTP client (unless Options.Remote)
//	       ├─────> checklist.NewService()  Reconciler
//	       └─────> state.Store{}           Card checklist cache + save guard
//
// # Session Operations
//
//   - Load: fetch a card's checklists into the cache
//   - Save: BeginSave, Service.Save, replace the cached copy, EndSave
//   - Create: create a checklist with items
//   - Delete: remote delete, then drop from the cache
//   - Toggle: flip one item, mirror the state in the cache
//
// App satisfies ui.Backend, which is how RunEditor hands these operations to
// the editor.
//
// # Logging
//
// Logs go to the configured log file, never to the terminal, so the editor's
// screen stays intact. Options.LogWriter redirects them, which tests use.
// When the log file cannot be opened logging is silently disabled.
package app
