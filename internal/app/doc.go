// ABOUTME: Application wiring for the interactive sound board
// ABOUTME: Used by the root binary
// Package app wires the asset directory, the sound system and the
// channel monitor together.
package app
