package uart

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/atomic"

	"i4.energy/across/wifilink/at"
)

const readChunk = 256

// Emulator plays the part of UART hardware on a hosted system. It is the
// Peripheral a Driver talks to and, through Run, the interrupt context that
// calls the Driver's handlers. Bytes read from the underlying stream become
// receive-ready events; bytes the Driver transmits are written back to it.
type Emulator struct {
	rw     io.ReadWriter
	logger *slog.Logger

	// rx holds the byte being delivered by the current receive event.
	rx byte
	// tx collects transmitted bytes until they are flushed to rw.
	tx []byte

	txEnabled atomic.Bool
	kick      chan struct{}
	running   atomic.Bool

	rxTrace *lineTracer
	txTrace *lineTracer
}

type chunk struct {
	data []byte
	err  error
}

// NewEmulator returns an Emulator over rw. A nil logger discards output.
func NewEmulator(rw io.ReadWriter, logger *slog.Logger) *Emulator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("component", "uart")
	return &Emulator{
		rw:      rw,
		logger:  logger,
		kick:    make(chan struct{}, 1),
		rxTrace: &lineTracer{logger: logger, dir: "rx"},
		txTrace: &lineTracer{logger: logger, dir: "tx"},
	}
}

// ReadData implements Peripheral.
func (e *Emulator) ReadData() byte {
	return e.rx
}

// WriteData implements Peripheral.
func (e *Emulator) WriteData(c byte) {
	e.tx = append(e.tx, c)
}

// EnableTxInterrupt implements Peripheral. It may be called from any
// goroutine.
func (e *Emulator) EnableTxInterrupt() {
	e.txEnabled.Store(true)
	select {
	case e.kick <- struct{}{}:
	default:
	}
}

// DisableTxInterrupt implements Peripheral.
func (e *Emulator) DisableTxInterrupt() {
	e.txEnabled.Store(false)
}

// Run is the interrupt context. It delivers every byte read from the stream
// to h.HandleRxReady and, whenever the transmit interrupt is enabled, calls
// h.HandleTxReady until it is disabled again, then writes what was
// transmitted. Run is the only goroutine that calls h.
//
// Run returns ctx.Err() on cancellation, io.EOF when the stream ends, or
// the read or write error that stopped it.
func (e *Emulator) Run(ctx context.Context, h Handler) error {
	if !e.running.CompareAndSwap(false, true) {
		return fmt.Errorf("uart emulator already running")
	}
	defer e.running.Store(false)

	done := make(chan struct{})
	defer close(done)
	chunks := make(chan chunk)
	go e.read(chunks, done)

	e.logger.Debug("interrupt context started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case c := <-chunks:
			for _, b := range c.data {
				e.rx = b
				h.HandleRxReady()
			}
			e.rxTrace.feed(ctx, c.data)
			if c.err == io.EOF {
				return io.EOF
			}
			if c.err != nil {
				return fmt.Errorf("read transport: %w", c.err)
			}

		case <-e.kick:
			// The transmit register is always empty when the emulator is
			// idle, so an enable raises the interrupt at once.
			e.txEnabled.Store(true)
			for e.txEnabled.Load() {
				h.HandleTxReady()
			}
			if err := e.flush(ctx); err != nil {
				return err
			}
		}
	}
}

func (e *Emulator) read(chunks chan<- chunk, done <-chan struct{}) {
	buf := make([]byte, readChunk)
	for {
		n, err := e.rw.Read(buf)
		c := chunk{data: append([]byte(nil), buf[:n]...), err: err}
		select {
		case chunks <- c:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (e *Emulator) flush(ctx context.Context) error {
	if len(e.tx) == 0 {
		return nil
	}
	out := e.tx
	e.tx = e.tx[:0]
	if _, err := e.rw.Write(out); err != nil {
		return fmt.Errorf("write transport: %w", err)
	}
	e.txTrace.feed(ctx, out)
	return nil
}

// lineTracer logs complete lines of one direction at debug level.
type lineTracer struct {
	logger  *slog.Logger
	dir     string
	pending []byte
}

func (t *lineTracer) feed(ctx context.Context, p []byte) {
	if !t.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	t.pending = append(t.pending, p...)
	for {
		advance, token, err := at.Splitter(t.pending, false)
		if err != nil || advance == 0 {
			break
		}
		t.pending = t.pending[advance:]
		if len(token) == 0 {
			continue
		}
		line := string(token)
		t.logger.DebugContext(ctx, "line", "dir", t.dir, "type", at.Classify(line).String(), "text", line)
	}
	// Drop an overlong partial line.
	if len(t.pending) > readChunk {
		t.pending = t.pending[:0]
	}
}
