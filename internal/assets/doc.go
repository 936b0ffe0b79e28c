// ABOUTME: Sound asset providers
// ABOUTME: Directory and in-memory lookups of raw sound lumps by name
// Package assets implements sfx.Provider over a directory of sound files
// and over an in-memory map.
package assets
