package modem

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/atomic"

	"i4.energy/across/wifilink/at"
	"i4.energy/across/wifilink/uart"
)

// Status is the connection state reported by the module.
type Status int

const (
	StatusUnknown      Status = iota
	StatusGotIP               // associated and holding an address
	StatusConnected           // associated, link established
	StatusDisconnected        // was associated, link lost
	StatusNotConnected        // never associated
)

func (s Status) String() string {
	switch s {
	case StatusGotIP:
		return "got-ip"
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	case StatusNotConnected:
		return "not-connected"
	default:
		return "unknown"
	}
}

// parseStatus maps the digit after "STATUS:" to a Status.
func parseStatus(field []byte) Status {
	if len(field) != 1 {
		return StatusUnknown
	}
	switch field[0] {
	case '2':
		return StatusGotIP
	case '3':
		return StatusConnected
	case '4':
		return StatusDisconnected
	case '5':
		return StatusNotConnected
	default:
		return StatusUnknown
	}
}

// Modem is a session with an ESP-AT WiFi module.
//
// All I/O with the module goes through a uart.Driver whose interrupt
// context is run by Loop. The session operations (QueryStatus, Join,
// StationIP, Reset) run on the caller's goroutine and busy-wait on the
// inbound ring; they are not safe for concurrent use and take no context:
// each wait ends on success or on its own timeout.
type Modem struct {
	// transport provides the physical connection to the module
	transport Transport
	// config contains the session configuration
	config Config
	logger *slog.Logger

	emulator *uart.Emulator
	driver   *uart.Driver
	scanner  *at.Scanner

	closed      atomic.Bool
	loopRunning atomic.Bool

	// Last known state. Written only by completed session operations.
	status  Status
	address string

	// loopCtx ends Loop when the Modem is closed
	loopCtx    context.Context
	loopCancel context.CancelFunc
}

// New creates a new Modem with the given configuration. It dials the
// transport and prepares the driver; no byte is exchanged with the module
// until Loop runs.
func New(ctx context.Context, config Config) (*Modem, error) {
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	transport, err := config.Dialer.Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if transport == nil {
		return nil, ErrNotInitialized
	}

	logger := config.Logger.With("component", "modem")
	emulator := uart.NewEmulator(transport, config.Logger)
	driver, err := uart.NewDriver(emulator, config.BufferSize)
	if err != nil {
		transport.Close()
		return nil, fmt.Errorf("create driver: %w", err)
	}

	m := &Modem{
		transport: transport,
		config:    config,
		logger:    logger,
		emulator:  emulator,
		driver:    driver,
		scanner:   at.NewScanner(driver.Inbound(), config.WaitBudget),
	}
	m.loopCtx, m.loopCancel = context.WithCancel(context.Background())
	return m, nil
}

// Loop runs the interrupt context: it feeds bytes read from the transport
// into the inbound ring and writes queued outbound bytes. It must be called
// exactly once after New, typically in its own goroutine, and before any
// session operation can complete.
//
// Loop returns when ctx is cancelled, when the Modem is closed, or when the
// transport fails or reaches EOF.
//
// Usage:
//
//	m, err := modem.New(ctx, config)
//	if err != nil { return err }
//	go m.Loop(ctx)
//
//	status, err := m.QueryStatus()
func (m *Modem) Loop(ctx context.Context) error {
	if !m.loopRunning.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer m.loopRunning.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(m.loopCtx, cancel)
	defer stop()

	m.logger.Debug("loop started")
	err := m.emulator.Run(ctx, m.driver)
	m.logger.Debug("loop stopped", "error", err)
	return err
}

// Close shuts down the session. It stops Loop and closes the transport.
// After Close every operation returns ErrAlreadyClosed.
func (m *Modem) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return ErrAlreadyClosed
	}

	if m.loopCancel != nil {
		m.loopCancel()
	}
	if m.transport != nil {
		return m.transport.Close()
	}
	return nil
}

// QueryStatus asks the module for its connection status. The inbound ring
// is empty afterwards whatever the result.
func (m *Modem) QueryStatus() (Status, error) {
	if err := m.usable(); err != nil {
		return StatusUnknown, err
	}
	defer m.scanner.Clear()

	m.driver.WriteString(at.CmdStatus)
	if err := m.scanner.WaitFor(at.StatusMarker); err != nil {
		return StatusUnknown, fmt.Errorf("wait for %q: %w", at.StatusMarker, err)
	}
	field := m.scanner.CopyUpTo(at.CRLF, nil)
	if err := m.scanner.WaitFor(at.OK + at.CRLF); err != nil {
		return StatusUnknown, fmt.Errorf("wait for status ack: %w", err)
	}

	m.status = parseStatus(field)
	m.logger.Debug("status", "status", m.status.String(), "field", string(field))
	return m.status, nil
}

// Reset restarts the module and waits for it to report ready. The last
// known status and address are forgotten.
func (m *Modem) Reset() error {
	if err := m.usable(); err != nil {
		return err
	}
	defer m.scanner.Clear()

	m.scanner.Clear()
	m.driver.WriteString(at.CmdReset)
	if err := m.scanner.Scan(at.UrcReady, m.config.ResetTimeout); err != nil {
		return fmt.Errorf("wait for %q: %w", at.UrcReady, err)
	}

	m.status = StatusUnknown
	m.address = ""
	m.logger.Info("module restarted")
	return nil
}

// Status returns the status seen by the last successful QueryStatus.
func (m *Modem) Status() Status {
	return m.status
}

// Address returns the address fetched by the last successful StationIP.
func (m *Modem) Address() string {
	return m.address
}

// Buffered returns the number of received bytes not yet consumed.
func (m *Modem) Buffered() int {
	return m.driver.Inbound().Available()
}

// Dropped returns the number of received bytes lost to a full inbound ring.
func (m *Modem) Dropped() uint64 {
	return m.driver.Dropped()
}

func (m *Modem) usable() error {
	if m.closed.Load() {
		return ErrAlreadyClosed
	}
	if m.driver == nil {
		return ErrNotInitialized
	}
	return nil
}
