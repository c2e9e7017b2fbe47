package nm

import (
	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

// Connection is a stored connection profile.
type Connection struct {
	obj dbus.BusObject
}

func (c *Connection) String() string {
	return string(c.obj.Path())
}

func (c *Connection) Delete() error {
	call := c.obj.Call(settingsPrefix+".Delete", 0)
	if call.Err != nil {
		return errors.Errorf("could not delete connection %v: %v", c, call.Err)
	}

	return nil
}

// ActiveConnection is a connection currently applied to a device.
type ActiveConnection struct {
	obj dbus.BusObject
}

func (a *ActiveConnection) String() string {
	return string(a.obj.Path())
}
