package modem

import "errors"

var (
	// ErrNoDialer is returned when a Modem is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// establish a connection to the WiFi module.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when an operation is attempted on a Modem
	// that has not been successfully initialized.
	//
	// This can occur if the Dialer returned no Transport or if the Modem was
	// not created via New.
	ErrNotInitialized = errors.New("modem not initialized")

	// ErrAlreadyClosed is returned when Close is called on a Modem that has
	// already been closed, and by every operation attempted after Close.
	ErrAlreadyClosed = errors.New("modem already closed")

	// ErrLoopRunning is returned when Loop is called while a previous call
	// is still running. Loop must run exactly once per Modem.
	ErrLoopRunning = errors.New("modem loop already running")

	// ErrAlreadyConnected is returned by Join when the module reports that it
	// is already associated with an access point. No command was sent and
	// the accompanying outcome is at.OutcomeConnect.
	//
	// Callers that want to switch networks must leave the current one first.
	ErrAlreadyConnected = errors.New("already connected to an access point")

	// ErrUnknownStatus is returned by Join when the connection status could
	// be queried but did not map to a known state.
	//
	// This typically indicates firmware that numbers its states differently.
	ErrUnknownStatus = errors.New("unknown connection status")
)
