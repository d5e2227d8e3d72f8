// Package ui provides the Bubble Tea terminal interface of diptych.
//
// # Architecture Overview
//
// Model is the root tea.Model. It owns two gallery.Pane controllers, one per
// side, and routes keys, mouse events and timer messages to them. Everything
// runs on the Bubble Tea event loop; the only data arriving from elsewhere is
// the store snapshot, read on every tick, and preference changes from the
// file watcher.
//
// # Package Structure
//
//   - app.go: Model, Options, message routing, commands and Run
//   - keys.go: key bindings (bubbles/key)
//   - layout.go: screen geometry and view modes
//   - header.go: status bar and command bar
//   - pane_view.go: period bar, windowed grid and timeline strip
//   - picker.go: month and collection pickers
//   - mouse.go: wheel scrolling, timeline drag and period bar clicks
//   - help.go: help overlay
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Screen Layout
//
//	┌──────────────────────────────────────────────────────────┐
//	│ diptych  ● ON  L photos 1204  R archive 88  12:00:01     │ header
//	│ j/k:Scroll  [/]:Month  o:Pick  </>:Timeline  ...         │ command bar
//	├────────────────────────────┬─────────────────────────────┤
//	│ ‹ March 2023 ›  3/41       │ ‹ June 2021 ›  1/7          │ period bars
//	│ ┌────┐ ┌────┐ ┌────┐     ▒ │ ┌────┐ ┌────┐ ┌────┐      ░ │
//	│ │    │ │    │ │    │     ◆ │ │    │ │    │ │    │      ◆ │ grid + timeline
//	│ └────┘ └────┘ └────┘     ░ │ └────┘ └────┘ └────┘      █ │
//	└────────────────────────────┴─────────────────────────────┘
//
// # Data Flow
//
// A tick reads store.Snapshot(). When the version of a side moved, the pane
// gets the new list through SetList (SetParallel for a misaligned list),
// which rebuilds its period index and timeline before anything can navigate. Mounted cells without a timestamp
// are resolved lazily through FetchDetailedInfo.
//
// # Preferences
//
// Theme, columns per pane, the date strip and the view mode are saved to
// prefs.toml when changed from the keyboard, and reloaded when the file is
// edited elsewhere.
package ui
