// Package app wires configuration, logging, services, the websocket
// hub and the HTTP router into a runnable server with graceful
// shutdown.
package app
