// Package uart moves bytes between a UART peripheral and the foreground
// through a pair of ring buffers.
//
// The interrupt side (HandleRxReady, HandleTxReady) and the foreground side
// (Inbound, WriteByte, Write, WriteString) each own one end of each ring,
// so the two can run concurrently without locks as long as there is exactly
// one interrupt context and one foreground.
package uart

import (
	"runtime"

	"go.uber.org/atomic"

	"i4.energy/across/wifilink/ring"
)

// Handler reacts to the peripheral's ready events. It is implemented by
// Driver and called from the interrupt context only.
type Handler interface {
	HandleRxReady()
	HandleTxReady()
}

// Driver connects a Peripheral to an inbound and an outbound ring.
type Driver struct {
	periph Peripheral

	// interrupt side
	rxIn  ring.Producer
	txOut ring.Consumer
	rxBuf *ring.Buffer
	txBuf *ring.Buffer

	// foreground side
	inbound  ring.Consumer
	outbound ring.Producer

	dropped atomic.Uint64
}

// NewDriver returns a Driver over p with rings of the given capacity each.
// A zero capacity selects ring.DefaultCapacity.
func NewDriver(p Peripheral, capacity int) (*Driver, error) {
	if capacity == 0 {
		capacity = ring.DefaultCapacity
	}
	rx, err := ring.New(capacity)
	if err != nil {
		return nil, err
	}
	tx, err := ring.New(capacity)
	if err != nil {
		return nil, err
	}
	return &Driver{
		periph:   p,
		rxIn:     rx.Producer(),
		txOut:    tx.Consumer(),
		rxBuf:    rx,
		txBuf:    tx,
		inbound:  rx.Consumer(),
		outbound: tx.Producer(),
	}, nil
}

// HandleRxReady moves the received byte into the inbound ring. When the ring
// is full the byte is dropped and counted.
func (d *Driver) HandleRxReady() {
	c := d.periph.ReadData()
	if !d.rxIn.TryPush(c) {
		d.dropped.Inc()
	}
}

// HandleTxReady hands the next outbound byte to the peripheral, or turns the
// transmit interrupt off once the outbound ring has drained.
func (d *Driver) HandleTxReady() {
	c, ok := d.txOut.TryPop()
	if !ok {
		d.periph.DisableTxInterrupt()
		return
	}
	d.periph.WriteData(c)
}

// Inbound returns the consuming end of the inbound ring.
func (d *Driver) Inbound() ring.Consumer {
	return d.inbound
}

// WriteByte queues c for transmission and enables the transmit interrupt.
// While the outbound ring is full it spins until the interrupt context makes
// room. It always returns nil.
func (d *Driver) WriteByte(c byte) error {
	for !d.outbound.TryPush(c) {
		runtime.Gosched()
	}
	d.periph.EnableTxInterrupt()
	return nil
}

// Write queues every byte of p. It never fails.
func (d *Driver) Write(p []byte) (int, error) {
	for _, c := range p {
		d.WriteByte(c)
	}
	return len(p), nil
}

// WriteString queues every byte of s. It never fails.
func (d *Driver) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		d.WriteByte(s[i])
	}
	return len(s), nil
}

// Pending returns the number of bytes queued but not yet handed to the
// peripheral.
func (d *Driver) Pending() int {
	return d.outbound.Available()
}

// Dropped returns the number of received bytes lost to a full inbound ring.
func (d *Driver) Dropped() uint64 {
	return d.dropped.Load()
}

// Reset empties both rings and zeroes the drop counter. It must only be
// called while no interrupt context is running.
func (d *Driver) Reset() {
	d.rxBuf.Reset()
	d.txBuf.Reset()
	d.dropped.Store(0)
}
