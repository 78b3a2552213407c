// Package ui provides the watch view: a Bubble Tea program that observes the
// site store.
//
// The model subscribes to the store's event channel and re-reads the store
// snapshot on each OnSiteChanged event. Styling uses lipgloss themes, a
// bubbles spinner runs while a fetch is in flight and bubbles key bindings
// drive navigation:
//
//   - r: dispatch FetchSites
//   - j/k, g/G: move the selection
//   - T: cycle theme
//   - h/?: toggle help
//   - q: quit
package ui
