// ABOUTME: Version information for the sfxmix binaries
// ABOUTME: Single source of truth for the version and product strings
package version

const (
	// Version is the current release
	Version = "0.3.0"

	// Product is the display name of the mixer tools
	Product = "SFX Mixer"

	// Manufacturer is reported in logs and the TUI
	Manufacturer = "Resonate"
)

// String returns the product and version for log banners
func String() string {
	return Product + " " + Version
}
