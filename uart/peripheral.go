package uart

//go:generate go tool mockgen -source=peripheral.go -destination=mock_peripheral.go -package=uart

// Peripheral is the register-level view of a UART the Driver works against:
// one received byte at a time, one byte to transmit at a time, and a switch
// for the transmit-ready interrupt.
type Peripheral interface {
	// ReadData returns the byte held in the receive register.
	ReadData() byte
	// WriteData loads c into the transmit register.
	WriteData(c byte)
	// EnableTxInterrupt asks for HandleTxReady calls while the transmit
	// register is empty.
	EnableTxInterrupt()
	// DisableTxInterrupt stops HandleTxReady calls.
	DisableTxInterrupt()
}
