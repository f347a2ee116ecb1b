package at

import (
	"io"
	"runtime"
	"time"
)

const (
	// DefaultWaitBudget bounds the wait for each new byte in WaitFor and
	// ReadFixed.
	DefaultWaitBudget = 500 * time.Millisecond
	// DefaultScanTimeout is the deadline Scan, ReadUntil and Match apply
	// when they are given a zero timeout.
	DefaultScanTimeout = 2 * time.Second
	// StationIPLen is the width of the address field filled by the session.
	StationIPLen = 32
)

// Source is the consuming side of the inbound byte channel.
// ring.Consumer satisfies it.
type Source interface {
	TryPop() (byte, bool)
	Peek() (byte, bool)
	Available() int
	Clear()
}

// Scanner reads the inbound channel on behalf of the foreground. Every wait
// is a busy poll of Source.Available; nothing else runs on the calling
// goroutine while a Scanner waits, and no wait can be cancelled from
// outside. A Scanner must only be used by one goroutine.
type Scanner struct {
	src    Source
	budget time.Duration
}

// NewScanner returns a Scanner over src. A zero waitBudget selects
// DefaultWaitBudget.
func NewScanner(src Source, waitBudget time.Duration) *Scanner {
	if waitBudget <= 0 {
		waitBudget = DefaultWaitBudget
	}
	return &Scanner{src: src, budget: waitBudget}
}

// Peek returns the next inbound byte without consuming it. It does not wait.
func (s *Scanner) Peek() (byte, bool) {
	return s.src.Peek()
}

// Pop consumes the next inbound byte. It does not wait.
func (s *Scanner) Pop() (byte, bool) {
	return s.src.TryPop()
}

// Available returns the number of inbound bytes waiting to be read.
func (s *Scanner) Available() int {
	return s.src.Available()
}

// Clear discards every pending inbound byte.
func (s *Scanner) Clear() {
	s.src.Clear()
}

// WaitFor consumes inbound bytes until literal has been seen. Each new byte
// must arrive within the wait budget or WaitFor returns ErrTimeout. There is
// no bound on the operation as a whole: a device that keeps talking without
// ever producing literal keeps WaitFor running for as long as it talks.
func (s *Scanner) WaitFor(literal string) error {
	if literal == "" {
		return nil
	}
	p := newPattern(literal)
	for {
		c, ok := s.next(time.Now().Add(s.budget))
		if !ok {
			return ErrTimeout
		}
		if p.step(c) {
			return nil
		}
	}
}

// CopyUpTo consumes inbound bytes up to and including the first occurrence
// of literal and appends the bytes that preceded it to dst.
//
// CopyUpTo has no timeout. If literal never arrives it blocks forever; use
// it only where the device is known to complete the line.
func (s *Scanner) CopyUpTo(literal string, dst []byte) []byte {
	if literal == "" {
		return dst
	}
	p := newPattern(literal)
	for {
		c, _ := s.next(time.Time{})
		dst = append(dst, c)
		if p.step(c) {
			// The literal's bytes are the last ones appended.
			return dst[:len(dst)-len(literal)]
		}
	}
}

// Scan consumes inbound bytes until token has been matched or the timeout
// elapses, in which case it returns ErrTimeout. A zero timeout selects
// DefaultScanTimeout.
func (s *Scanner) Scan(token string, timeout time.Duration) error {
	if token == "" {
		return nil
	}
	deadline := s.deadline(timeout)
	p := newPattern(token)
	for {
		c, ok := s.next(deadline)
		if !ok {
			return ErrTimeout
		}
		if p.step(c) {
			return nil
		}
	}
}

// ReadUntil consumes inbound bytes into dst until term is read, the timeout
// elapses or dst is full. The terminator itself is consumed but not stored.
// It returns the number of bytes stored together with ErrTimeout or
// io.ErrShortBuffer when the terminator was not reached. A zero timeout
// selects DefaultScanTimeout.
func (s *Scanner) ReadUntil(term byte, dst []byte, timeout time.Duration) (int, error) {
	deadline := s.deadline(timeout)
	n := 0
	for {
		c, ok := s.next(deadline)
		if !ok {
			return n, ErrTimeout
		}
		if c == term {
			return n, nil
		}
		if n == len(dst) {
			return n, io.ErrShortBuffer
		}
		dst[n] = c
		n++
	}
}

// ReadFixed fills dst with exactly len(dst) raw inbound bytes, giving each
// byte the wait budget to arrive.
func (s *Scanner) ReadFixed(dst []byte) error {
	for i := range dst {
		c, ok := s.next(time.Now().Add(s.budget))
		if !ok {
			return ErrTimeout
		}
		dst[i] = c
	}
	return nil
}

func (s *Scanner) deadline(timeout time.Duration) time.Time {
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}
	return time.Now().Add(timeout)
}

// next waits for a byte and consumes it. A zero deadline waits forever.
func (s *Scanner) next(deadline time.Time) (byte, bool) {
	if !await(s.src, deadline) {
		return 0, false
	}
	return s.src.TryPop()
}

// await polls src until a byte is available or the deadline has passed.
func await(src Source, deadline time.Time) bool {
	for src.Available() == 0 {
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return false
		}
		runtime.Gosched()
	}
	return true
}
