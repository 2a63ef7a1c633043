// ABOUTME: Build identity constants
// ABOUTME: Reported to the companion service during the handshake
package version

const (
	Version      = "0.1.0"
	Product      = "Coursely Companion"
	Manufacturer = "Coursely"
)
