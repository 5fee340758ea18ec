// Package ui provides the terminal user interface of margin, a reading
// tracker client.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds all state and is updated only
// from Update; every network call runs inside a tea.Cmd and comes back as a
// message, so the render loop never blocks on the tracker backend.
//
// # Package Structure
//
//   - app.go: Model, Options, message routing and the Run function
//   - header.go: Status bar with view tabs, heartbeat numbers and the offline banner
//   - dashboard.go, books.go, sessions.go, stats.go, wrapped.go, logs.go: one file per view
//   - form.go: Create and edit dialogs with inline validation
//   - confirm.go: Yes/no dialog guarding deletes
//   - toast.go: Transient notifications in the footer
//   - box.go, chart.go, strings.go, style_helpers.go: Rendering helpers
//   - theme.go, keys.go, help.go, layout.go: Colors, bindings and sizing
//
// # Views
//
// Six views are available, switched with 1-6 or Tab:
//
//   - Dashboard: Reading time of the last two weeks, books in progress and recent sessions
//   - Books: Every book with status badges; create, edit, finish and delete
//   - Sessions: Reading sessions, all of them or those of one book
//   - Stats: Totals, streaks and charts, for all time or one year
//   - Wrapped: The yearly review: personality, protagonists, authors and habits
//   - Logs: margin's own log file with level filter, search and follow mode
//
// # Data Flow
//
//  1. The heartbeat poller in internal/app writes basic stats into state.Store
//  2. A one-second tick copies the latest Snapshot into the model for the header
//  3. Entering a view, or pressing r, fetches that view's data
//  4. Responses for a year or book that is no longer selected are dropped
//  5. A successful write closes its dialog, shows a toast, wakes the poller and
//     reloads the current view
//
// # Error Handling
//
// A view that fails its first load shows the error in place with a retry
// hint. A view that already has data keeps it and reports the failure as a
// toast. Forms validate locally before sending anything; field errors are
// annotated next to each input and server errors appear under the form.
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:   ctx,
//		Client:    client,
//		Store:     store,
//		Refresh:   poller.Wake,
//		LogFile:   cfg.LogFile,
//		Theme:     userPrefs.Theme,
//		StartView: userPrefs.StartView,
//	})
//
// # Key Bindings
//
//   - 1-6, Tab, Shift+Tab: Switch views
//   - j/k, g/G, Ctrl+D/Ctrl+U: Move and scroll
//   - n: New book (books view) or log a session
//   - e, f, d: Edit, finish or delete the selected book
//   - Enter: Show the selected book's sessions
//   - [ and ]: Older and newer year (stats, wrapped)
//   - Space, v, /: Follow, level filter and search (logs view)
//   - T: Cycle theme, saved to the preferences file
//   - r: Reload, ?: Help, q or Ctrl+C: Quit
package ui
