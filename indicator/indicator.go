package indicator

// Indicator shows the state of the jukebox on the device itself.
type Indicator interface {
	Start() error
	Stop() error

	// SetPairing lights the indicator while a pairing session is open.
	SetPairing(on bool)
}

// Noop is used when the device has no indicator.
type Noop struct{}

// Compile time check for protocol compatibility
var _ Indicator = Noop{}

func (Noop) Start() error       { return nil }
func (Noop) Stop() error        { return nil }
func (Noop) SetPairing(on bool) {}
