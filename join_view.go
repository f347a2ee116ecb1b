package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"i4.energy/across/wifilink/at"
	"i4.energy/across/wifilink/modem"
)

// joiner is the part of a session the join view drives.
type joiner interface {
	Join(ssid, password string) (at.Outcome, error)
}

// joinDoneMsg carries the result of the join attempt.
type joinDoneMsg struct {
	outcome at.Outcome
	err     error
}

// joinModel shows a spinner while Join runs and the outcome once it ends.
type joinModel struct {
	session  joiner
	ssid     string
	password string

	spinner spinner.Model
	quit    key.Binding

	done    bool
	outcome at.Outcome
	err     error
}

func newJoinModel(session joiner, ssid, password string) *joinModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return &joinModel{
		session:  session,
		ssid:     ssid,
		password: password,
		spinner:  s,
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (m *joinModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.join)
}

func (m *joinModel) join() tea.Msg {
	outcome, err := m.session.Join(m.ssid, m.password)
	return joinDoneMsg{outcome: outcome, err: err}
}

func (m *joinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case joinDoneMsg:
		m.done = true
		m.outcome = msg.outcome
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, m.quit) {
			m.err = errJoinAborted
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *joinModel) View() string {
	if !m.done {
		if errors.Is(m.err, errJoinAborted) {
			return errorStyle.Render("aborted") + "\n"
		}
		return fmt.Sprintf("%s joining %s\n", m.spinner.View(), titleStyle.Render(m.ssid))
	}
	return m.result() + "\n"
}

// result renders the finished attempt.
func (m *joinModel) result() string {
	if errors.Is(m.err, modem.ErrAlreadyConnected) {
		return field("ssid", m.ssid, titleStyle) + "\n" + field("outcome", "already connected", okStyle)
	}
	if m.err != nil {
		return field("ssid", m.ssid, titleStyle) + "\n" + field("error", m.err.Error(), errorStyle)
	}
	return field("ssid", m.ssid, titleStyle) + "\n" + field("outcome", m.outcome.String(), outcomeStyle(m.outcome))
}

var errJoinAborted = errors.New("join aborted")
