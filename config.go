package main

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/marlinbox/marlind/hotspot"
	"github.com/marlinbox/marlind/jukebox"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultDataDir      = "/var/lib/marlind"
	defaultLibraryPath  = "music.json"
	defaultListen       = "0.0.0.0:8080"
	defaultMpdAddress   = "localhost:6600"
	defaultHotspotSsid  = "MARLIN"
	defaultHotspotIface = "wlan0"
	defaultReaderVid    = 0xffff
	defaultReaderPid    = 0x0035
)

type libraryConfig struct {
	Store  string `long:"store" description:"Where the card library is kept" choice:"file" choice:"db" yaml:"store"`
	Path   string `long:"path" description:"Path of the library JSON document; imported into the database on first start with --library.store=db" yaml:"path"`
	Create bool   `long:"create" description:"Start with an empty library if the document does not exist" yaml:"create"`
}

type readerConfig struct {
	Type     string        `long:"type" description:"Card reader device" choice:"hidraw" choice:"stdin" yaml:"type"`
	Device   string        `long:"device" description:"Path of the hidraw node, looked up by vendor and product id if empty" yaml:"device"`
	Vid      uint16        `long:"vid" description:"USB vendor id of the reader (hex)" base:"16" yaml:"vid"`
	Pid      uint16        `long:"pid" description:"USB product id of the reader (hex)" base:"16" yaml:"pid"`
	Debounce time.Duration `long:"debounce" description:"Ignore a card presented again within this window" yaml:"debounce"`
}

type audioConfig struct {
	Type       string  `long:"type" description:"Audio output" choice:"mpd" choice:"mock" yaml:"type"`
	Network    string  `long:"network" description:"How to reach mpd" choice:"tcp" choice:"unix" yaml:"network"`
	Address    string  `long:"address" description:"Address or socket path of mpd" yaml:"address"`
	Password   string  `long:"password" description:"Password for mpd" yaml:"password"`
	Root       string  `long:"root" description:"Directory relative tracks are resolved against by the mock output" yaml:"root"`
	VolumeStep float64 `long:"volumestep" description:"Volume change per VolumeUp or VolumeDown card" yaml:"volumestep"`
	MaxVolume  float64 `long:"maxvolume" description:"Highest volume VolumeUp may reach" yaml:"maxvolume"`
}

type soundsConfig struct {
	Success string `long:"success" description:"Track played after a card was paired" yaml:"success"`
	Failure string `long:"failure" description:"Track played if a card could not be paired" yaml:"failure"`
}

type hotspotConfig struct {
	Type      string `long:"type" description:"Hotspot implementation" choice:"networkmanager" choice:"mock" yaml:"type"`
	Interface string `long:"interface" description:"Wireless interface the hotspot runs on" yaml:"interface"`
	Ssid      string `long:"ssid" description:"Name of the hotspot" yaml:"ssid"`
	Password  string `long:"password" description:"WPA2 password of the hotspot, 8 to 63 characters" yaml:"password"`
}

type managerConfig struct {
	Listen  string `long:"listen" description:"Address the manager listens on" yaml:"listen"`
	Assets  string `long:"assets" description:"Directory holding the manager web interface" yaml:"assets"`
	Uploads string `long:"uploads" description:"Directory uploaded tracks are stored in" yaml:"uploads"`
}

type pairingConfig struct {
	Threshold int           `long:"threshold" description:"How often a new card must be presented to pair it" yaml:"threshold"`
	Timeout   time.Duration `long:"timeout" description:"End a pairing session after this long, 0 to never" yaml:"timeout"`
}

type indicatorConfig struct {
	Type string `long:"type" description:"Pairing indicator" choice:"gpio" choice:"none" yaml:"type"`
	Pin  string `long:"pin" description:"GPIO pin of the pairing LED" yaml:"pin"`
}

type config struct {
	ConfigFile   string        `long:"config" description:"Path to a YAML configuration file; flags override its values" yaml:"-"`
	ShowVersion  bool          `short:"V" long:"version" description:"Display version information and exit" yaml:"-"`
	Debug        bool          `long:"debug" description:"Start in debug mode" yaml:"debug"`
	LogFile      string        `long:"logfile" description:"Also write logs to this file, rotated by size" yaml:"logfile"`
	DataDir      string        `long:"datadir" description:"The directory to store marlind's data within" yaml:"datadir"`
	PollInterval time.Duration `long:"pollinterval" description:"How long the control loop sleeps when idle" yaml:"pollinterval"`

	Library   *libraryConfig   `group:"Library" namespace:"library" yaml:"library"`
	Reader    *readerConfig    `group:"Reader" namespace:"reader" yaml:"reader"`
	Audio     *audioConfig     `group:"Audio" namespace:"audio" yaml:"audio"`
	Sounds    *soundsConfig    `group:"Sounds" namespace:"sounds" yaml:"sounds"`
	Hotspot   *hotspotConfig   `group:"Hotspot" namespace:"hotspot" yaml:"hotspot"`
	Manager   *managerConfig   `group:"Manager" namespace:"manager" yaml:"manager"`
	Pairing   *pairingConfig   `group:"Pairing" namespace:"pairing" yaml:"pairing"`
	Indicator *indicatorConfig `group:"Indicator" namespace:"indicator" yaml:"indicator"`
}

func defaultConfig() config {
	return config{
		DataDir:      defaultDataDir,
		PollInterval: 20 * time.Millisecond,
		Library: &libraryConfig{
			Store: "file",
			Path:  defaultLibraryPath,
		},
		Reader: &readerConfig{
			Type:     "hidraw",
			Vid:      defaultReaderVid,
			Pid:      defaultReaderPid,
			Debounce: 2 * time.Second,
		},
		Audio: &audioConfig{
			Type:       "mpd",
			Network:    "tcp",
			Address:    defaultMpdAddress,
			VolumeStep: 0.1,
			MaxVolume:  1.0,
		},
		Sounds: &soundsConfig{},
		Hotspot: &hotspotConfig{
			Type:      "networkmanager",
			Interface: defaultHotspotIface,
			Ssid:      defaultHotspotSsid,
			Password:  hotspot.DefaultPassword,
		},
		Manager: &managerConfig{
			Listen:  defaultListen,
			Assets:  "assets",
			Uploads: "uploads",
		},
		Pairing: &pairingConfig{
			Threshold: 3,
		},
		Indicator: &indicatorConfig{
			Type: "none",
			Pin:  "GPIO17",
		},
	}
}

// loadConfig builds the configuration from defaults, an optional YAML file and
// the command line, in increasing order of precedence.
func loadConfig() (*config, error) {
	return loadConfigArgs(os.Args[1:])
}

func loadConfigArgs(args []string) (*config, error) {
	// Pre-parse the command line to find the config file and handle --help.
	preCfg := defaultConfig()
	if _, err := flags.NewParser(&preCfg, flags.Default).ParseArgs(args); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	if preCfg.ConfigFile != "" {
		if err := loadConfigFile(preCfg.ConfigFile, &cfg); err != nil {
			return nil, err
		}
	}

	if _, err := flags.NewParser(&cfg, flags.Default).ParseArgs(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadConfigFile(path string, cfg *config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "could not read config file %v", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return errors.Wrapf(err, "could not decode config file %v", path)
	}

	return nil
}

func (c *config) validate() error {
	if c.Pairing.Threshold < 1 || c.Pairing.Threshold > jukebox.MaxPairingThreshold {
		return errors.Errorf("pairing threshold must be between 1 and %d, got %d",
			jukebox.MaxPairingThreshold, c.Pairing.Threshold)
	}

	if c.Pairing.Timeout < 0 {
		return errors.Errorf("pairing timeout must not be negative")
	}

	if c.Audio.VolumeStep <= 0 || c.Audio.MaxVolume <= 0 {
		return errors.Errorf("volume step and max volume must be positive")
	}

	if c.Hotspot.Type == "networkmanager" {
		if err := hotspot.CheckPassword(c.Hotspot.Password); err != nil {
			return err
		}
	}

	if c.PollInterval <= 0 {
		return errors.Errorf("poll interval must be positive")
	}

	if c.Library.Store == "file" && c.Library.Path == "" {
		return errors.Errorf("the file library store needs --library.path")
	}

	return nil
}
