// Package state provides thread-safe state shared between the poller and the UI.
//
// # Overview
//
// The Store holds the latest item list of each pane. The background poller
// writes, the UI reads copies:
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌──────────────────┐
//	│ FetchList()    │            │                  │
//	│      ↓         │            │                  │
//	│ UpdateParallel │───────────→│ store.Snapshot() │
//	│      ↓         │  (mutex)   │      ↓           │
//	│  repeat...     │            │  SetList(...)    │
//	└────────────────┘            └──────────────────┘
//
// # Versions
//
// Each List carries a Version that only moves when the fingerprint of its
// ids and timestamps changes. The UI compares versions to decide whether a
// pane must rebuild its period index, so an unchanged poll costs nothing.
//
// # Failures
//
// A failed poll keeps the previous entries and records LastError. After two
// consecutive failures the side reports IsOffline, which the header shows.
//
// A payload whose ids and dates differ in length is not a failure. Every id
// is kept, the list is flagged Misaligned and carries the raw dates so the
// pane can attach it without a date index.
package state
