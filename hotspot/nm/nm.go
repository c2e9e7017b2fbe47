// Package nm is a thin client for the NetworkManager D-Bus API.
package nm

import (
	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

const (
	busName        = "org.freedesktop.NetworkManager"
	objectPath     = "/org/freedesktop/NetworkManager"
	settingsPrefix = "org.freedesktop.NetworkManager.Settings.Connection"
)

// Settings is the nested settings dictionary NetworkManager uses to describe a
// connection, keyed by setting name and then property.
type Settings map[string]map[string]dbus.Variant

type NetworkManager struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

func New() *NetworkManager {
	return &NetworkManager{}
}

func (n *NetworkManager) Start() error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return errors.Errorf("could not connect to system bus: %v", err)
	}

	n.conn = conn
	n.obj = conn.Object(busName, objectPath)

	return nil
}

func (n *NetworkManager) Stop() error {
	if n.conn == nil {
		return nil
	}

	err := n.conn.Close()
	n.conn = nil
	n.obj = nil

	if err != nil {
		return errors.Errorf("could not close system bus: %v", err)
	}

	return nil
}

func (n *NetworkManager) GetDeviceByIpIface(iface string) (*Device, error) {
	var path dbus.ObjectPath

	err := n.obj.Call(busName+".GetDeviceByIpIface", 0, iface).Store(&path)
	if err != nil {
		return nil, errors.Errorf("could not find device %v: %v", iface, err)
	}

	return &Device{obj: n.conn.Object(busName, path)}, nil
}

// AddAndActivateConnection creates a connection from settings and brings it up
// on the device.
func (n *NetworkManager) AddAndActivateConnection(settings Settings, device *Device) (*Connection, *ActiveConnection, error) {
	var (
		connPath   dbus.ObjectPath
		activePath dbus.ObjectPath
	)

	err := n.obj.Call(busName+".AddAndActivateConnection", 0, settings, device.obj.Path(), dbus.ObjectPath("/")).
		Store(&connPath, &activePath)
	if err != nil {
		return nil, nil, errors.Errorf("could not activate connection: %v", err)
	}

	return &Connection{obj: n.conn.Object(busName, connPath)},
		&ActiveConnection{obj: n.conn.Object(busName, activePath)},
		nil
}

func (n *NetworkManager) DeactivateConnection(active *ActiveConnection) error {
	call := n.obj.Call(busName+".DeactivateConnection", 0, active.obj.Path())
	if call.Err != nil {
		return errors.Errorf("could not deactivate %v: %v", active, call.Err)
	}

	return nil
}
