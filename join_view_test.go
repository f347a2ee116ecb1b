package main

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"i4.energy/across/wifilink/at"
	"i4.energy/across/wifilink/modem"
)

type stubJoiner struct {
	outcome at.Outcome
	err     error
}

func (s stubJoiner) Join(ssid, password string) (at.Outcome, error) {
	return s.outcome, s.err
}

func TestJoinModel(t *testing.T) {
	t.Run("Spinner shows while joining", func(t *testing.T) {
		m := newJoinModel(stubJoiner{}, "lab", "secret")
		if view := m.View(); !strings.Contains(view, "joining") || !strings.Contains(view, "lab") {
			t.Errorf("View() = %q, want joining lab", view)
		}
	})

	t.Run("Join command reports the outcome", func(t *testing.T) {
		m := newJoinModel(stubJoiner{outcome: at.OutcomeOK}, "lab", "secret")
		msg := m.join()

		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatal("Update() returned no command, want quit")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("Update() command is not quit")
		}
		if !m.done || m.outcome != at.OutcomeOK {
			t.Errorf("done = %v, outcome = %v", m.done, m.outcome)
		}
		if view := m.View(); !strings.Contains(view, "ok") {
			t.Errorf("View() = %q, want ok outcome", view)
		}
	})

	t.Run("Already connected is not shown as an error", func(t *testing.T) {
		m := newJoinModel(stubJoiner{outcome: at.OutcomeConnect, err: modem.ErrAlreadyConnected}, "lab", "")
		m.Update(m.join())
		if view := m.View(); !strings.Contains(view, "already connected") {
			t.Errorf("View() = %q, want already connected", view)
		}
	})

	t.Run("Session errors are shown", func(t *testing.T) {
		m := newJoinModel(stubJoiner{err: errors.New("query status: timeout")}, "lab", "")
		m.Update(m.join())
		if view := m.View(); !strings.Contains(view, "query status: timeout") {
			t.Errorf("View() = %q, want error text", view)
		}
	})

	t.Run("Quit key aborts", func(t *testing.T) {
		m := newJoinModel(stubJoiner{}, "lab", "")
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		if cmd == nil {
			t.Fatal("Update() returned no command, want quit")
		}
		if !errors.Is(m.err, errJoinAborted) {
			t.Errorf("err = %v, want %v", m.err, errJoinAborted)
		}
		if view := m.View(); !strings.Contains(view, "aborted") {
			t.Errorf("View() = %q, want aborted", view)
		}
	})
}
