// Package server implements the core HTTP and WebSocket relay functionality
// for Signald, a room-scoped signaling server used to bootstrap peer-to-peer
// connections (WebRTC offer/answer/ICE exchange).
//
// The implementation is organized into specialized files for configuration,
// the room registry, connection handling, routing, and HTTP handlers to keep
// the codebase maintainable and testable as the project grows.
package server
