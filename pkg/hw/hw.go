// Package hw abstracts the device services the signing core consumes: a
// secure byte source, the stack canary, the watchdog heartbeat, the expert
// mode flag and the debug log.
//
// Production firmware binds these to device calls. Host builds use Host,
// and tests use Deterministic so every randomized operation is reproducible.
package hw

import (
	"crypto/rand"
	"io"

	"go.uber.org/zap"
	"golang.org/x/crypto/chacha20"
)

// Platform is the set of device hooks threaded through long operations.
//
// None of the hooks may fail. Only the byte source influences results.
type Platform interface {
	// Rand returns the secure byte source.
	Rand() io.Reader
	// CheckCanary verifies the stack canary.
	CheckCanary()
	// Heartbeat yields to the device I/O scheduler.
	Heartbeat()
	// IsExpertMode reports whether the user enabled expert mode.
	IsExpertMode() bool
	// Log writes a fixed diagnostic string. Never pass key material.
	Log(msg string)
}

// Host runs on a development machine.
type Host struct {
	logger *zap.Logger
	rng    io.Reader
	expert bool
}

var _ Platform = (*Host)(nil)

// HostOption configures a Host.
type HostOption func(*Host)

// WithExpertMode sets the expert mode flag.
func WithExpertMode(on bool) HostOption {
	return func(h *Host) { h.expert = on }
}

// WithRand replaces the operating system byte source.
func WithRand(r io.Reader) HostOption {
	return func(h *Host) { h.rng = r }
}

// NewHost returns a Host that logs to logger and draws from crypto/rand.
func NewHost(logger *zap.Logger, opts ...HostOption) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Host{logger: logger, rng: rand.Reader}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) Rand() io.Reader { return h.rng }

func (h *Host) CheckCanary() {}

func (h *Host) Heartbeat() {}

func (h *Host) IsExpertMode() bool { return h.expert }

func (h *Host) Log(msg string) {
	h.logger.Debug(msg)
}

// Deterministic is a Platform whose byte source is a ChaCha20 keystream
// under a fixed seed and an all-zero nonce. It counts hook calls so tests
// can check that long operations keep the watchdog fed.
type Deterministic struct {
	stream     *chacha20.Cipher
	logger     *zap.Logger
	heartbeats int
	canaries   int
}

var _ Platform = (*Deterministic)(nil)

// NewDeterministic seeds the keystream.
func NewDeterministic(seed [32]byte) *Deterministic {
	return &Deterministic{stream: NewChaChaRand(seed).stream, logger: zap.NewNop()}
}

func (d *Deterministic) Rand() io.Reader { return chachaReader{d.stream} }

func (d *Deterministic) CheckCanary() { d.canaries++ }

func (d *Deterministic) Heartbeat() { d.heartbeats++ }

func (d *Deterministic) IsExpertMode() bool { return false }

func (d *Deterministic) Log(msg string) { d.logger.Debug(msg) }

// Heartbeats returns how many times Heartbeat was called.
func (d *Deterministic) Heartbeats() int { return d.heartbeats }

// Canaries returns how many times CheckCanary was called.
func (d *Deterministic) Canaries() int { return d.canaries }

// ChaChaRand is a reader over a ChaCha20 keystream. With a zero nonce and
// counter starting at zero it yields the same bytes as a ChaCha20 RNG seeded
// with the same key, which is how spend signatures derive their nonces.
type ChaChaRand struct {
	stream *chacha20.Cipher
}

// NewChaChaRand keys the keystream with seed.
func NewChaChaRand(seed [32]byte) *ChaChaRand {
	var nonce [chacha20.NonceSize]byte
	// Key and nonce sizes are fixed, so this cannot fail.
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		panic(err)
	}
	return &ChaChaRand{stream: c}
}

func (r *ChaChaRand) Read(p []byte) (int, error) {
	return chachaReader{r.stream}.Read(p)
}

type chachaReader struct {
	stream *chacha20.Cipher
}

func (r chachaReader) Read(p []byte) (int, error) {
	clear(p)
	r.stream.XORKeyStream(p, p)
	return len(p), nil
}
