package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show secondary columns.
	LayoutWideWidth = 120
)

// Chrome lines around the content box: header, command bar, footer.
const chromeLines = 3

// Data display limits.
const (
	// DashboardDays is the number of days in the dashboard chart.
	DashboardDays = 14

	// DashboardRecentSessions is the number of sessions listed on the
	// dashboard.
	DashboardRecentSessions = 5

	// StatsChartRows is the maximum number of bars per stats chart.
	StatsChartRows = 8

	// LogReadLimit is the number of log lines read from the end of the file.
	LogReadLimit = 500
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// ToastDuration is how long a toast stays visible.
	ToastDuration = 4 * time.Second
)
