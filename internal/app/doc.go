// Package app provides the orchestration layer for margin.
//
// # Overview
//
// This package wires together configuration, logging, the tracker client,
// the heartbeat poller and the UI. It is the composition root: every
// dependency is created here and handed to the packages that need it.
//
// # Architecture
//
//  1. Load config.toml, .env and MARGIN_* overrides (package config)
//  2. Open the JSON log file (package logging)
//  3. Load user preferences: theme and start view (package prefs)
//  4. Create the tracker HTTP client with the configured timeout
//  5. Create the shared state.Store and the heartbeat Poller
//  6. Run one synchronous refresh so the header is filled on the first frame
//  7. Start the poller goroutine and run the TUI until the user quits
//
// # Components
//
//   - app.go: Run, the startup sequence above
//   - poller.go: Poller, the background heartbeat
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()       Read config and environment
//	       ├─────> logging.New()       Open the log file
//	       ├─────> tracker.NewClient() Create HTTP client
//	       ├─────> state.Store{}       Shared heartbeat container
//	       ├─────> poller.Refresh()    First heartbeat
//	       ├─────> poller.Start()      Launch background updates
//	       └─────> ui.Run()            Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ Poller goroutine                        │
//	│  ├─> Stats().Basic()      ┐ errgroup    │
//	│  ├─> AvailableYears()     ┘             │
//	│  └─> store.Update()                     │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller refreshes the all-time basic statistics and the list of years
// with reading data. The interval comes from poll_seconds (default 15s) or
// the -poll flag. After consecutive failures the wait doubles each time, up
// to five minutes, and drops back to the base interval after the first
// success. The UI can request an immediate refresh with Wake, for example
// after the user creates or deletes a record.
//
// Polling is a heartbeat, not a retry: individual requests issued by views
// are never repeated.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid configuration
//   - Log file cannot be created
//   - Invalid API URL
//
// Recoverable errors (logged, polling continues):
//   - Backend unreachable or timing out
//   - Backend answering with 4xx/5xx
//
// An unreachable backend at startup is not fatal; the UI starts with the
// offline banner and recovers when the backend comes up.
package app
