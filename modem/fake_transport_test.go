package modem_test

import (
	"bytes"
	"io"
	"sync"
)

// fakeTransport answers each command line written to it with the next
// queued reply. Reads block until a reply is due, like a serial port would.
type fakeTransport struct {
	mu       sync.Mutex
	readChan chan []byte
	line     []byte
	replies  []string
	written  []string
	closed   bool
}

func newFakeTransport(replies ...string) *fakeTransport {
	return &fakeTransport{
		readChan: make(chan []byte, 16),
		replies:  replies,
	}
}

func (t *fakeTransport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	t.line = append(t.line, p...)
	for {
		i := bytes.Index(t.line, []byte("\r\n"))
		if i < 0 {
			break
		}
		t.written = append(t.written, string(t.line[:i]))
		t.line = t.line[i+2:]
		if len(t.replies) > 0 {
			if t.replies[0] != "" {
				t.readChan <- []byte(t.replies[0])
			}
			t.replies = t.replies[1:]
		}
	}
	return len(p), nil
}

func (t *fakeTransport) Read(p []byte) (int, error) {
	data, ok := <-t.readChan
	if !ok {
		return 0, io.EOF
	}
	return copy(p, data), nil
}

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.readChan)
	return nil
}

// SendData queues data as if the module had sent it unprompted.
func (t *fakeTransport) SendData(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.readChan <- []byte(data)
	}
}

// Written returns the command lines received so far.
func (t *fakeTransport) Written() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.written...)
}
