package reader

import (
	"context"
	"io"
	"time"

	"github.com/go-errors/errors"
)

// ErrReceiverGone is returned by Run when nobody takes the scanned card anymore.
var ErrReceiverGone = errors.New("card receiver gone")

const (
	DefaultDebounce    = 2 * time.Second
	DefaultReadTimeout = time.Second
	DefaultRetryDelay  = time.Second
)

type Config struct {
	Device Device
	Logger Logger

	// Debounce is the window in which a card that is presented again is
	// ignored. The window restarts every time the card is seen.
	Debounce    time.Duration
	ReadTimeout time.Duration

	// RetryDelay is how long to back off after a device error.
	RetryDelay time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Reader polls a Device and emits the identity of each presented card.
type Reader struct {
	device      Device
	log         Logger
	debounce    time.Duration
	readTimeout time.Duration
	retryDelay  time.Duration
	now         func() time.Time

	// lastSeen holds every card sighted within the debounce window.
	lastSeen map[string]time.Time
}

func NewReader(config *Config) *Reader {
	r := &Reader{
		device:      config.Device,
		log:         config.Logger,
		debounce:    config.Debounce,
		readTimeout: config.ReadTimeout,
		retryDelay:  config.RetryDelay,
		now:         config.Now,
		lastSeen:    make(map[string]time.Time),
	}

	if r.log == nil {
		r.log = noopLogger{}
	}

	if r.debounce == 0 {
		r.debounce = DefaultDebounce
	}

	if r.readTimeout == 0 {
		r.readTimeout = DefaultReadTimeout
	}

	if r.retryDelay == 0 {
		r.retryDelay = DefaultRetryDelay
	}

	if r.now == nil {
		r.now = time.Now
	}

	return r
}

// Run reads frames until the device reports io.EOF or ctx is done. Every
// accepted card identity is sent on out, which is closed when Run returns.
func (r *Reader) Run(ctx context.Context, out chan<- string) error {
	defer close(out)

	buf := make([]byte, FrameSize)

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := r.device.Read(buf, r.readTimeout)
		switch {
		case err == nil:
		case errors.Is(err, ErrTimeout):
			continue
		case errors.Is(err, io.EOF):
			r.log.Infof("Reader device closed")
			return nil
		default:
			r.log.Errorf("Could not read from device: %v", err)

			select {
			case <-time.After(r.retryDelay):
			case <-ctx.Done():
				return nil
			}

			continue
		}

		card, ok := ExtractCardID(buf[:n])
		if !ok {
			r.log.Debugf("Ignoring malformed frame of %d bytes", n)
			continue
		}

		if !r.accept(card) {
			r.log.Debugf("Debounced card %v", card)
			continue
		}

		r.log.Infof("Card %v presented", card)

		select {
		case out <- card:
		case <-ctx.Done():
			return errors.Errorf("%w: %v", ErrReceiverGone, ctx.Err())
		}
	}
}

func (r *Reader) accept(card string) bool {
	now := r.now()

	for seen, at := range r.lastSeen {
		if now.Sub(at) >= r.debounce {
			delete(r.lastSeen, seen)
		}
	}

	_, repeated := r.lastSeen[card]
	r.lastSeen[card] = now

	return !repeated
}
