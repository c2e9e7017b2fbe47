package hotspot

// Hotspot switches the device's maintenance access point.
type Hotspot interface {
	Enable() error
	Disable() error
}
