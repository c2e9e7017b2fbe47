package hotspot

import (
	"sync"

	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
	"github.com/marlinbox/marlind/hotspot/nm"
)

// Compile time check for protocol compatibility
var _ Hotspot = (*NetworkManager)(nil)

// DefaultPassword is the WPA2 passphrase used unless another one is configured.
const DefaultPassword = "M4rl!nB0x"

// CheckPassword reports whether password is a valid WPA2 passphrase.
func CheckPassword(password string) error {
	if len(password) < 8 || len(password) > 63 {
		return errors.Errorf("hotspot password must be 8 to 63 characters long, got %d", len(password))
	}

	return nil
}

type Config struct {
	Interface string
	Ssid      string

	// Password secures the access point with WPA2. Enable refuses to start an
	// access point without a valid one.
	Password string

	Logger Logger
}

// NetworkManager runs the access point as a shared NetworkManager connection.
type NetworkManager struct {
	sync.Mutex
	log      Logger
	nm       *nm.NetworkManager
	ifname   string
	ssid     string
	password string
	conn     *nm.Connection
	active   *nm.ActiveConnection
}

func NewNetworkManager(config *Config) *NetworkManager {
	n := &NetworkManager{
		nm:       nm.New(),
		ifname:   config.Interface,
		ssid:     config.Ssid,
		password: config.Password,
	}

	if config.Logger != nil {
		n.log = config.Logger
	} else {
		n.log = noopLogger{}
	}

	return n
}

func (n *NetworkManager) Enable() error {
	n.Lock()
	defer n.Unlock()

	if n.active != nil {
		return nil
	}

	if err := CheckPassword(n.password); err != nil {
		return err
	}

	err := n.nm.Start()
	if err != nil {
		return errors.Errorf("could not start network manager client: %v", err)
	}

	device, err := n.nm.GetDeviceByIpIface(n.ifname)
	if err != nil {
		_ = n.nm.Stop()
		return errors.Errorf("could not find interface %v: %v", n.ifname, err)
	}

	conn, active, err := n.nm.AddAndActivateConnection(apSettings(n.ssid, n.password), device)
	if err != nil {
		_ = n.nm.Stop()
		return errors.Errorf("could not start access point %v: %v", n.ssid, err)
	}

	n.conn = conn
	n.active = active

	n.log.Infof("Access point %v up on %v", n.ssid, n.ifname)

	return nil
}

func (n *NetworkManager) Disable() error {
	n.Lock()
	defer n.Unlock()

	if n.active == nil {
		return nil
	}

	err := n.nm.DeactivateConnection(n.active)
	if err != nil {
		return errors.Errorf("could not stop access point %v: %v", n.ssid, err)
	}

	if err := n.conn.Delete(); err != nil {
		n.log.Warnf("Could not remove access point profile: %v", err)
	}

	n.conn = nil
	n.active = nil

	if err := n.nm.Stop(); err != nil {
		n.log.Warnf("Could not close network manager client: %v", err)
	}

	n.log.Infof("Access point %v down", n.ssid)

	return nil
}

func apSettings(ssid, password string) nm.Settings {
	settings := nm.Settings{
		"connection": {
			"id":          dbus.MakeVariant(ssid),
			"type":        dbus.MakeVariant("802-11-wireless"),
			"autoconnect": dbus.MakeVariant(false),
		},
		"802-11-wireless": {
			"ssid": dbus.MakeVariant([]byte(ssid)),
			"mode": dbus.MakeVariant("ap"),
		},
		"ipv4": {
			"method": dbus.MakeVariant("shared"),
		},
		"802-11-wireless-security": {
			"key-mgmt": dbus.MakeVariant("wpa-psk"),
			"psk":      dbus.MakeVariant(password),
		},
		"ipv6": {
			"method": dbus.MakeVariant("ignore"),
		},
	}

	return settings
}
