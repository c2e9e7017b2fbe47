package nm

import "github.com/godbus/dbus/v5"

type Device struct {
	obj dbus.BusObject
}

func (d *Device) String() string {
	return string(d.obj.Path())
}
