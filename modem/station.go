package modem

import (
	"fmt"

	"i4.energy/across/wifilink/at"
)

// Join associates the module with the access point ssid.
//
// The connection status is queried first. A module that is already
// associated is left alone and Join reports at.OutcomeConnect with
// ErrAlreadyConnected. A module whose link was lost leaves its access point
// first. Then station mode is selected and the join command is sent; its
// outcome is classified by at.Match within the join timeout and returned
// with a nil error, at.OutcomeTimeout included.
func (m *Modem) Join(ssid, password string) (at.Outcome, error) {
	if err := m.usable(); err != nil {
		return at.OutcomeError, err
	}

	status, err := m.QueryStatus()
	if err != nil {
		return at.OutcomeTimeout, fmt.Errorf("query status: %w", err)
	}

	switch status {
	case StatusGotIP, StatusConnected:
		return at.OutcomeConnect, ErrAlreadyConnected
	case StatusDisconnected:
		if err := m.command(at.CmdQuitAP, at.OK+at.CRLF); err != nil {
			return at.OutcomeTimeout, fmt.Errorf("leave access point: %w", err)
		}
	case StatusNotConnected:
	default:
		return at.OutcomeError, ErrUnknownStatus
	}

	ack := at.CmdStationMode + at.CRLF + at.OK + at.CRLF
	if m.config.EchoOff {
		ack = at.OK + at.CRLF
	}
	if err := m.command(at.CmdStationMode, ack); err != nil {
		return at.OutcomeTimeout, fmt.Errorf("select station mode: %w", err)
	}

	join := fmt.Sprintf(at.CmdJoinFormat, ssid, password)
	m.driver.WriteString(join)
	defer m.scanner.Clear()
	if !m.config.EchoOff {
		// Credentials must not be matched as a terminator.
		if err := m.scanner.WaitFor(join); err != nil {
			return at.OutcomeTimeout, fmt.Errorf("wait for join echo: %w", err)
		}
	}

	outcome := at.Match(m.driver.Inbound(), m.config.JoinTimeout)
	m.logger.Info("join finished", "ssid", ssid, "outcome", outcome.String())
	return outcome, nil
}

// StationIP fetches the station address of the module.
func (m *Modem) StationIP() (string, error) {
	if err := m.usable(); err != nil {
		return "", err
	}

	m.scanner.Clear()
	m.driver.WriteString(at.CmdLocalAddr)
	if err := m.scanner.Scan(at.StationIPTag, m.config.ScanTimeout); err != nil {
		return "", fmt.Errorf("wait for %q: %w", at.StationIPTag, err)
	}

	field := make([]byte, at.StationIPLen)
	n, err := m.scanner.ReadUntil('"', field, m.config.ScanTimeout)
	if err != nil {
		return "", fmt.Errorf("read station address: %w", err)
	}

	m.address = string(field[:n])
	m.logger.Debug("station address", "address", m.address)
	return m.address, nil
}

// command sends cmd and waits for ack. The inbound ring is cleared when the
// wait fails.
func (m *Modem) command(cmd, ack string) error {
	m.driver.WriteString(cmd)
	if err := m.scanner.WaitFor(ack); err != nil {
		m.scanner.Clear()
		return err
	}
	return nil
}
