package main

import (
	"github.com/charmbracelet/lipgloss"

	"i4.energy/across/wifilink/at"
	"i4.energy/across/wifilink/modem"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(10)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99"))
)

// statusStyle picks the colour a connection status is shown in.
func statusStyle(s modem.Status) lipgloss.Style {
	switch s {
	case modem.StatusGotIP, modem.StatusConnected:
		return okStyle
	case modem.StatusDisconnected, modem.StatusNotConnected:
		return warnStyle
	default:
		return errorStyle
	}
}

// outcomeStyle picks the colour a join outcome is shown in.
func outcomeStyle(o at.Outcome) lipgloss.Style {
	switch o {
	case at.OutcomeOK, at.OutcomeConnect:
		return okStyle
	case at.OutcomeBusy, at.OutcomeTimeout:
		return warnStyle
	default:
		return errorStyle
	}
}

// field renders one "label value" line.
func field(label, value string, style lipgloss.Style) string {
	return labelStyle.Render(label) + style.Render(value)
}
