// Package ring implements the fixed-capacity byte ring shared between the
// interrupt context and the foreground of the UART driver.
//
// A Buffer has exactly one writer of each cursor. The producing side owns
// head and the consuming side owns tail; the two sides are handed out as
// separate Producer and Consumer values so that neither can move the other's
// cursor. Under that contract no lock is needed: each cursor is published
// with an atomic store after the slot it guards has been written or read.
//
// One slot is always left unused so that head == tail means empty and
// head+1 == tail means full. The usable size is therefore capacity-1.
package ring

import (
	"errors"

	"go.uber.org/atomic"
)

// DefaultCapacity is the capacity used for both the inbound and the
// outbound channel when none is configured.
const DefaultCapacity = 256

// ErrCapacity is returned by New for a capacity that cannot hold a single
// byte once the reserved slot is taken out.
var ErrCapacity = errors.New("ring capacity must be at least 2")

// Buffer is a single-producer/single-consumer circular byte buffer.
type Buffer struct {
	data []byte
	size uint32

	// head is the next slot to write. Only the Producer stores it.
	head atomic.Uint32
	// tail is the next slot to read. Only the Consumer stores it.
	tail atomic.Uint32
}

// New allocates a Buffer holding capacity bytes of storage.
func New(capacity int) (*Buffer, error) {
	if capacity < 2 {
		return nil, ErrCapacity
	}
	return &Buffer{
		data: make([]byte, capacity),
		size: uint32(capacity),
	}, nil
}

// Cap returns the storage capacity. At most Cap()-1 bytes can be buffered.
func (b *Buffer) Cap() int {
	return int(b.size)
}

// Available returns the number of unread bytes.
func (b *Buffer) Available() int {
	return int((b.size + b.head.Load() - b.tail.Load()) % b.size)
}

// Producer returns the writing handle of the buffer.
func (b *Buffer) Producer() Producer {
	return Producer{b: b}
}

// Consumer returns the reading handle of the buffer.
func (b *Buffer) Consumer() Consumer {
	return Consumer{b: b}
}

// Reset moves both cursors to zero and zeroes the storage. It touches both
// cursors and must only be called while neither side is in use.
func (b *Buffer) Reset() {
	clear(b.data)
	b.head.Store(0)
	b.tail.Store(0)
}

// Producer is the writing side of a Buffer. It only ever advances head.
type Producer struct {
	b *Buffer
}

// TryPush stores c and reports true, or drops c and reports false when the
// buffer is full. It never blocks.
func (p Producer) TryPush(c byte) bool {
	b := p.b
	head := b.head.Load()
	next := (head + 1) % b.size
	if next == b.tail.Load() {
		return false
	}
	b.data[head] = c
	b.head.Store(next)
	return true
}

// Full reports whether the next TryPush would drop its byte.
func (p Producer) Full() bool {
	b := p.b
	return (b.head.Load()+1)%b.size == b.tail.Load()
}

// Available returns the number of bytes not yet consumed.
func (p Producer) Available() int {
	return p.b.Available()
}

// Consumer is the reading side of a Buffer. It only ever advances tail.
type Consumer struct {
	b *Buffer
}

// TryPop removes and returns the oldest byte. ok is false when the buffer
// is empty.
func (c Consumer) TryPop() (v byte, ok bool) {
	b := c.b
	tail := b.tail.Load()
	if tail == b.head.Load() {
		return 0, false
	}
	v = b.data[tail]
	b.tail.Store((tail + 1) % b.size)
	return v, true
}

// Peek returns the oldest byte without removing it.
func (c Consumer) Peek() (v byte, ok bool) {
	b := c.b
	tail := b.tail.Load()
	if tail == b.head.Load() {
		return 0, false
	}
	return b.data[tail], true
}

// Available returns the number of unread bytes.
func (c Consumer) Available() int {
	return c.b.Available()
}

// Clear discards every unread byte and zeroes the slots it discarded, so
// nothing left over from one exchange can be matched by the next. Bytes
// the producer pushes concurrently with Clear may survive it.
func (c Consumer) Clear() {
	b := c.b
	head := b.head.Load()
	for tail := b.tail.Load(); tail != head; tail = (tail + 1) % b.size {
		b.data[tail] = 0
	}
	b.tail.Store(head)
}
