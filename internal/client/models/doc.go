// Package models defines the client-side data models of the Deuce CLI:
// the on-device reset state, login sessions and the transient copies of
// backend resources shown on screen.
package models
