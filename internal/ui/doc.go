// Package ui provides the courtcheck terminal interface built on Bubble Tea.
//
// # Views
//
//   - Form: category, from date, until date, time bucket and location. Text
//     fields are edited in place; the two selectors cycle with left/right.
//     Enter validates the dates and starts a check.
//   - Results: one section per checked date in a scrollable viewport, with a
//     slot table or the empty-date notice, and failed locations listed below.
//
// # Data Flow
//
// A check runs as a tea.Cmd that calls availability.RunCheck, which publishes
// each finished date to a state.Store. The model polls the store on a tick,
// the same way it would for any background producer, and re-renders the
// viewport from the latest Snapshot. Leaving the results view or quitting
// cancels the in-flight check through its context.
//
// # Themes
//
// Three palettes are built in (Nightfox, Kanagawa, Slate). T cycles them and
// the choice is written back to the config file with config.SaveTheme.
package ui
