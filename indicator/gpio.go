package indicator

import (
	"github.com/go-errors/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// Compile time check for protocol compatibility
var _ Indicator = (*Gpio)(nil)

type GpioConfig struct {
	// Pin is the periph name of the LED pin, e.g. "GPIO17".
	Pin    string
	Logger Logger
}

// Gpio drives an LED attached to a GPIO pin.
type Gpio struct {
	pinName string
	pin     gpio.PinIO
	log     Logger
}

func NewGpio(config *GpioConfig) *Gpio {
	g := &Gpio{
		pinName: config.Pin,
	}

	if config.Logger != nil {
		g.log = config.Logger
	} else {
		g.log = noopLogger{}
	}

	return g
}

func (g *Gpio) Start() error {
	g.log.Infof("Initializing host drivers")

	_, err := host.Init()
	if err != nil {
		return errors.Errorf("could not initialize host drivers: %v", err)
	}

	g.pin = gpioreg.ByName(g.pinName)
	if g.pin == nil {
		return errors.Errorf("could not find pin %v", g.pinName)
	}

	if err := g.pin.Out(gpio.Low); err != nil {
		return errors.Errorf("could not set up pin %v: %v", g.pinName, err)
	}

	return nil
}

func (g *Gpio) Stop() error {
	if g.pin == nil {
		return nil
	}

	if err := g.pin.Out(gpio.Low); err != nil {
		return errors.Errorf("could not turn off pin %v: %v", g.pinName, err)
	}

	return nil
}

func (g *Gpio) SetPairing(on bool) {
	if g.pin == nil {
		return
	}

	level := gpio.Low
	if on {
		level = gpio.High
	}

	if err := g.pin.Out(level); err != nil {
		g.log.Errorf("Could not switch pairing indicator: %v", err)
	}
}
