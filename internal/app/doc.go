// Package app provides the orchestration layer for diptych.
//
// # Overview
//
// This package wires configuration, logging, polling, state management and
// the UI together. It is the composition root where every dependency is
// initialized and connected.
//
//  1. Load config from ~/.config/diptych/config.toml
//  2. Point the zerolog logger at the log file (the TUI owns the terminal)
//  3. Build the media API client and the shared state.Store
//  4. Poll once so the first frame already has data
//  5. Start the background poller and the prefs file watcher
//  6. Run the TUI until the user quits or the context is cancelled
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()       Read config.toml
//	       ├─────> logging.Init()      Log to file
//	       ├─────> catalog.NewClient() Create HTTP client
//	       ├─────> state.Store{}       Shared per-side lists
//	       ├─────> Poller.Start()      Launch background updates
//	       ├─────> prefs.Watch()       Notice external prefs edits
//	       └─────> ui.Run()            Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ Poller.Start() goroutine                │
//	│  ├─> FetchList(left)                    │
//	│  ├─> FetchList(right)                   │
//	│  └─> store.Update()  (versioned)        │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller refreshes both panes every interval (default 5 seconds). A
// failing cycle doubles the wait, capped at 30 seconds, and the first
// success returns to the base interval. Switching a pane's collection resets
// that side in the store and kicks an immediate refresh.
//
// # Error Handling
//
// Fatal errors (returned from Run): invalid configuration, an unwritable log
// file, an unparsable api_bind. Poll failures are logged and shown in the
// header; they never stop the UI.
package app
