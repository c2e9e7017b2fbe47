package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/marlinbox/marlind/audio"
	"github.com/marlinbox/marlind/hotspot"
	"github.com/marlinbox/marlind/indicator"
	"github.com/marlinbox/marlind/jukebox"
	"github.com/marlinbox/marlind/library"
	"github.com/marlinbox/marlind/manager"
	"github.com/marlinbox/marlind/marlindb"
	"github.com/marlinbox/marlind/reader"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	Commit string
	// Version stores the version string of this build. This should be set using -ldflags during compilation.
	Version string
	// Date stores the date of this build. This should be set using -ldflags during compilation.
	Date string
)

// marlindMain is the true entry point for marlind. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func marlindMain() error {
	logger := log.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(log.InfoLevel)

	// Load CLI configuration and defaults
	cfg, err := loadConfig()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		return nil
	} else if err != nil {
		return errors.Errorf("Failed parsing arguments: %v", err)
	}

	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}

		defer rotator.Close()

		logger.SetOutput(io.MultiWriter(os.Stdout, rotator))
	}

	// Set logger into debug mode if called with --debug
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
		logger.Info("Setting debug mode.")
	}

	logger.Debug("Loaded config.")

	// Print version of the daemon
	logger.Infof("Version %s (commit %s)", Version, Commit)
	logger.Infof("Built on %s", Date)

	// Stop here if only version was requested
	if cfg.ShowVersion {
		return nil
	}

	// marlin.db persistently stores settings and, if configured, the library
	marlinDB, err := marlindb.Open(cfg.DataDir)
	if err != nil {
		return errors.Errorf("Could not open marlin.db: %v", err)
	}

	logger.Infof("Opened marlin.db")

	defer func() {
		err := marlinDB.Close()
		if err != nil {
			logger.Errorf("Could not close marlin.db: %v", err)
		} else {
			logger.Info("Closed marlin.db.")
		}
	}()

	store, lib, err := openLibrary(cfg, marlinDB, logger)
	if err != nil {
		return err
	}

	logger.Infof("Loaded library with %d cards.", lib.Len())

	// The audio output
	var sink audio.Sink

	switch cfg.Audio.Type {
	case "mpd":
		sink = audio.NewMpd(&audio.MpdConfig{
			Network:  cfg.Audio.Network,
			Address:  cfg.Audio.Address,
			Password: cfg.Audio.Password,
			Logger:   logger.WithField("system", "audio"),
		})

		logger.Infof("Created mpd audio output at %v.", cfg.Audio.Address)
	case "mock":
		sink = audio.NewMock(&audio.MockConfig{
			Root:   cfg.Audio.Root,
			Logger: logger.WithField("system", "audio"),
		})

		logger.Info("Created a mock audio output.")
	default:
		return errors.Errorf("Unknown audio type %v", cfg.Audio.Type)
	}

	// The maintenance hotspot
	var h hotspot.Hotspot

	switch cfg.Hotspot.Type {
	case "networkmanager":
		h = hotspot.NewNetworkManager(&hotspot.Config{
			Interface: cfg.Hotspot.Interface,
			Ssid:      cfg.Hotspot.Ssid,
			Password:  cfg.Hotspot.Password,
			Logger:    logger.WithField("system", "hotspot"),
		})

		logger.Infof("Created NetworkManager hotspot on %v.", cfg.Hotspot.Interface)
	case "mock":
		h = hotspot.NewMock(&hotspot.Config{
			Logger: logger.WithField("system", "hotspot"),
		})

		logger.Info("Created a mock hotspot.")
	default:
		return errors.Errorf("Unknown hotspot type %v", cfg.Hotspot.Type)
	}

	// The pairing indicator
	var ind indicator.Indicator

	switch cfg.Indicator.Type {
	case "gpio":
		ind = indicator.NewGpio(&indicator.GpioConfig{
			Pin:    cfg.Indicator.Pin,
			Logger: logger.WithField("system", "indicator"),
		})

		logger.Infof("Created GPIO indicator on pin %v.", cfg.Indicator.Pin)
	case "none":
		ind = indicator.Noop{}
	default:
		return errors.Errorf("Unknown indicator type %v", cfg.Indicator.Type)
	}

	if err := ind.Start(); err != nil {
		return errors.Errorf("Could not start indicator: %v", err)
	}

	defer func() {
		err := ind.Stop()
		if err != nil {
			logger.Errorf("Could not properly stop indicator: %v", err)
		}
	}()

	// The card reader
	device, err := reader.OpenDevice(&reader.DeviceConfig{
		Type: cfg.Reader.Type,
		Path: cfg.Reader.Device,
		Vid:  cfg.Reader.Vid,
		Pid:  cfg.Reader.Pid,
	})
	if err != nil {
		return errors.Errorf("Could not open card reader: %v", err)
	}

	logger.Infof("Opened %v card reader.", cfg.Reader.Type)

	defer func() {
		err := device.Close()
		if err != nil {
			logger.Errorf("Could not close card reader: %v", err)
		} else {
			logger.Info("Closed card reader.")
		}
	}()

	cardReader := reader.NewReader(&reader.Config{
		Device:   device,
		Logger:   logger.WithField("system", "reader"),
		Debounce: cfg.Reader.Debounce,
	})

	// The manager is served whenever the hotspot is off
	mgr := manager.New(&manager.Config{
		Listen:     cfg.Manager.Listen,
		AssetsDir:  cfg.Manager.Assets,
		UploadsDir: cfg.Manager.Uploads,
		Logger:     logger.WithField("system", "manager"),
	})

	cards := make(chan string, 8)

	// central controller for everything the jukebox does
	jb := jukebox.NewJukebox(&jukebox.Config{
		Library:          lib,
		Store:            store,
		Settings:         marlinDB,
		Sink:             sink,
		Hotspot:          h,
		Manager:          mgr,
		Indicator:        ind,
		Cards:            cards,
		Logger:           logger.WithField("system", "jukebox"),
		PairingThreshold: cfg.Pairing.Threshold,
		PairingTimeout:   cfg.Pairing.Timeout,
		PollInterval:     cfg.PollInterval,
		VolumeStep:       cfg.Audio.VolumeStep,
		MaxVolume:        cfg.Audio.MaxVolume,
		SuccessSound:     cfg.Sounds.Success,
		FailureSound:     cfg.Sounds.Failure,
	})

	mgr.SetJukebox(jb)

	logger.Infof("Created jukebox.")

	// Handle interrupt signals correctly
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	readerDone := make(chan struct{})

	go func() {
		defer close(readerDone)

		err := cardReader.Run(ctx, cards)
		if err != nil {
			logger.Errorf("Card reader stopped: %v", err)
		}
	}()

	// blocks until the jukebox is shut down
	err = jb.Run(ctx)

	// The reader must be done with the device before it is closed.
	cancel()
	<-readerDone

	if err != nil {
		return errors.Errorf("Failed running jukebox: %v", err)
	}

	// finish with no error
	return nil
}

// openLibrary picks the configured library store and loads the library from it.
// A library that cannot be loaded is fatal.
func openLibrary(cfg *config, db *marlindb.DB, logger *log.Logger) (library.Store, *library.Library, error) {
	switch cfg.Library.Store {
	case "file":
		store := &library.FileStore{
			Path:   cfg.Library.Path,
			Create: cfg.Library.Create,
		}

		lib, err := store.Load()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Could not load library from %v", cfg.Library.Path)
		}

		return store, lib, nil
	case "db":
		lib, err := db.Load()
		if err != nil {
			return nil, nil, errors.Wrap(err, "Could not load library from marlin.db")
		}

		if lib.Len() > 0 || cfg.Library.Path == "" {
			return db, lib, nil
		}

		if _, err := os.Stat(cfg.Library.Path); err != nil {
			return db, lib, nil
		}

		lib, err = db.Import(cfg.Library.Path)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Could not import library from %v", cfg.Library.Path)
		}

		logger.Infof("Imported library from %v into marlin.db.", filepath.Clean(cfg.Library.Path))

		return db, lib, nil
	default:
		return nil, nil, errors.Errorf("Unknown library store %v", cfg.Library.Store)
	}
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := marlindMain(); err != nil {
		log.WithError(err).Println("Failed running marlind.")
		os.Exit(1)
	}
}
