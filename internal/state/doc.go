// Package state holds the heartbeat data shared between margin's background
// poller and the UI.
//
// # Overview
//
// The poller periodically fetches the dashboard statistics and the list of
// years with reading sessions. Besides feeding the header, each fetch doubles
// as a connectivity check: the Store counts consecutive failures so the UI
// can show an offline banner.
//
// Views (books, sessions, stats, wrapped) do not live here. They own their
// data and reload it on demand; only the small always-visible summary is
// polled.
//
// # Architecture
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────────┐        ┌────────────────┐
//	│ Stats().Basic()    │        │                │
//	│ AvailableYears()   │        │                │
//	│        ↓           │        │                │
//	│ store.Update()     │───────→│ store.Snapshot()│
//	└────────────────────┘ (mutex)└────────────────┘
//
// # Update Semantics
//
//	// Success: replace the data, clear the error, reset the failure count
//	store.Update(&stats, years, nil)
//
//	// Failure: keep the previous data, record the error, count the failure
//	store.Update(nil, nil, err)
//
// Snapshot.IsOffline reports true after two consecutive failures, so a single
// slow response does not flash the banner.
//
// # Copying
//
// Snapshot returns the years slice and the error as fresh copies; callers may
// keep or modify what they get without locking.
//
// The zero Store is ready to use.
package state
