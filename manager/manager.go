package manager

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-errors/errors"
	"github.com/gorilla/mux"
	"github.com/marlinbox/marlind/action"
	"github.com/marlinbox/marlind/jukebox"
	"github.com/marlinbox/marlind/library"
)

const shutdownTimeout = 5 * time.Second

// Jukebox is the part of the control loop the manager talks to.
type Jukebox interface {
	TriggerPairing()
	Status() jukebox.Status
	SubscribeStatus() *jukebox.StatusClient
	Cards(ctx context.Context) ([]library.Entry, error)
	Bind(ctx context.Context, card string, a action.Action) error
	Unbind(ctx context.Context, card string) error
}

type Config struct {
	Listen     string
	AssetsDir  string
	UploadsDir string
	Logger     Logger
}

// Manager is the HTTP surface for pairing, uploads and card administration.
// Every call to Serve runs a fresh server.
type Manager struct {
	jukebox    Jukebox
	router     *mux.Router
	listen     string
	assetsDir  string
	uploadsDir string
	log        Logger
}

// Compile time check for protocol compatibility
var _ jukebox.Manager = (*Manager)(nil)

func New(config *Config) *Manager {
	m := &Manager{
		router:     mux.NewRouter(),
		listen:     config.Listen,
		assetsDir:  config.AssetsDir,
		uploadsDir: config.UploadsDir,
	}

	if config.Logger != nil {
		m.log = config.Logger
	} else {
		m.log = noopLogger{}
	}

	m.router.Handle("/", m.handleGetIndex()).Methods(http.MethodGet)
	m.router.PathPrefix("/assets/").Handler(m.handleGetAssets()).Methods(http.MethodGet)

	m.router.Handle("/pair", m.handlePair()).Methods(http.MethodGet)
	m.router.Handle("/upload", m.handleUpload()).Methods(http.MethodPost)

	m.router.Handle("/api/v1/pairing", m.handlePair()).Methods(http.MethodPost)
	m.router.Handle("/api/v1/status", m.handleGetStatus()).Methods(http.MethodGet)
	m.router.Handle("/api/v1/events", m.handleGetEvents()).Methods(http.MethodGet)
	m.router.Handle("/api/v1/cards", m.handleGetCards()).Methods(http.MethodGet)
	m.router.Handle("/api/v1/cards/{id}", m.handlePutCard()).Methods(http.MethodPut)
	m.router.Handle("/api/v1/cards/{id}", m.handleDeleteCard()).Methods(http.MethodDelete)

	return m
}

func (m *Manager) SetJukebox(j Jukebox) {
	m.jukebox = j
}

func (m *Manager) Handler() http.Handler {
	return m.router
}

// Serve listens on the configured address until a signal arrives on shutdown.
func (m *Manager) Serve(shutdown <-chan struct{}) error {
	lis, err := net.Listen("tcp", m.listen)
	if err != nil {
		return errors.Errorf("could not listen on %v: %v", m.listen, err)
	}

	return m.serve(lis, shutdown)
}

func (m *Manager) serve(lis net.Listener, shutdown <-chan struct{}) error {
	// Open event streams end with the base context.
	base, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Handler:           m.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return base
		},
	}

	srv.RegisterOnShutdown(cancel)

	errs := make(chan error, 1)

	go func() {
		errs <- srv.Serve(lis)
	}()

	m.log.Infof("Manager listening on %v", lis.Addr())

	select {
	case <-shutdown:
		m.log.Infof("Manager shutting down")

		ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := srv.Shutdown(ctx); err != nil {
			return errors.Errorf("could not shut down manager: %v", err)
		}

		return nil
	case err := <-errs:
		return errors.Errorf("unable to serve manager: %v", err)
	}
}
