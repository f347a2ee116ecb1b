package sim

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Device is a scripted ESP-AT module. Writes are the host's commands, reads
// return what the module says. Read blocks until output is pending or the
// Device is closed.
type Device struct {
	script *Script
	logger *slog.Logger

	mu       sync.Mutex
	state    string
	line     []byte
	pending  []byte
	commands []string
	closed   bool

	ready chan struct{}
	done  chan struct{}
}

// NewDevice returns a Device answering from script. A nil logger discards
// output.
func NewDevice(script *Script, logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Device{
		script: script,
		logger: logger.With("component", "sim"),
		state:  script.State,
		ready:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Write takes command bytes from the host. Each complete CRLF-terminated
// line is answered.
func (d *Device) Write(p []byte) (int, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return 0, io.ErrClosedPipe
	}
	d.line = append(d.line, p...)
	var lines []string
	for {
		i := bytes.Index(d.line, []byte("\r\n"))
		if i < 0 {
			break
		}
		lines = append(lines, string(d.line[:i]))
		d.line = d.line[i+2:]
	}
	d.mu.Unlock()

	for _, l := range lines {
		d.answer(l)
	}
	return len(p), nil
}

func (d *Device) answer(line string) {
	d.mu.Lock()
	d.commands = append(d.commands, line)
	rule, ok := d.script.lookup(line, d.state)
	if ok && rule.Next != "" {
		d.state = rule.Next
	}
	d.mu.Unlock()

	if d.script.Echo {
		d.emit(line + "\r\n")
	}
	if !ok {
		d.logger.Debug("no rule for command", "line", line)
		d.emit(d.script.Unknown)
		return
	}
	if rule.DelayMs > 0 {
		time.AfterFunc(time.Duration(rule.DelayMs)*time.Millisecond, func() {
			d.emit(rule.Reply)
		})
		return
	}
	d.emit(rule.Reply)
}

// Inject queues unsolicited output, as if the module had produced it on
// its own.
func (d *Device) Inject(s string) {
	d.emit(s)
}

func (d *Device) emit(s string) {
	if s == "" {
		return
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.pending = append(d.pending, s...)
	d.mu.Unlock()
	select {
	case d.ready <- struct{}{}:
	default:
	}
}

// Read returns pending module output, blocking until there is some. It
// returns io.EOF once the Device is closed.
func (d *Device) Read(p []byte) (int, error) {
	for {
		d.mu.Lock()
		if len(d.pending) > 0 {
			n := copy(p, d.pending)
			d.pending = d.pending[n:]
			d.mu.Unlock()
			return n, nil
		}
		if d.closed {
			d.mu.Unlock()
			return 0, io.EOF
		}
		d.mu.Unlock()

		select {
		case <-d.ready:
		case <-d.done:
		}
	}
}

// Close makes pending and future reads return io.EOF.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.pending = nil
	close(d.done)
	return nil
}

// Commands returns every command line received so far.
func (d *Device) Commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.commands...)
}

// State returns the current script state.
func (d *Device) State() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}
