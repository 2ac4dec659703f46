// Package http contains the HTTP handlers: batch lifecycle, derived
// dashboard summaries, health checks and the websocket progress stream.
// Errors surface as RFC 7807 problem responses.
package http
