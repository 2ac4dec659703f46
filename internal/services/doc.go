// Package services holds the application services behind the HTTP
// transport: the dashboard service that owns batch sessions and derives
// summaries, and the health service.
package services
