package modem

import (
	"fmt"
	"log/slog"
	"time"

	"i4.energy/across/wifilink/at"
	"i4.energy/across/wifilink/ring"
)

// DefaultJoinTimeout bounds the wait for the outcome of a join command.
const DefaultJoinTimeout = 10 * time.Second

// DefaultResetTimeout bounds the wait for the module to come back after a
// restart.
const DefaultResetTimeout = 5 * time.Second

func (c *Config) validate() error {
	if c.Dialer == nil {
		return ErrNoDialer
	}
	if c.BufferSize < 2 {
		return fmt.Errorf("buffer size %d: %w", c.BufferSize, ring.ErrCapacity)
	}
	return nil
}

type Config struct {
	Dialer Dialer
	// BufferSize is the capacity of the inbound and of the outbound ring.
	BufferSize int
	// WaitBudget is how long a wait gives each new byte to arrive.
	WaitBudget   time.Duration
	ScanTimeout  time.Duration
	JoinTimeout  time.Duration
	ResetTimeout time.Duration
	// EchoOff tells the session that the module does not echo commands.
	EchoOff bool
	Logger  *slog.Logger
}

func (c *Config) setDefaults() {
	if c.BufferSize == 0 {
		c.BufferSize = ring.DefaultCapacity
	}
	if c.WaitBudget == 0 {
		c.WaitBudget = at.DefaultWaitBudget
	}
	if c.ScanTimeout == 0 {
		c.ScanTimeout = at.DefaultScanTimeout
	}
	if c.JoinTimeout == 0 {
		c.JoinTimeout = DefaultJoinTimeout
	}
	if c.ResetTimeout == 0 {
		c.ResetTimeout = DefaultResetTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

// ConfigBuilder assembles a Config. Unset values get their defaults in Build.
type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.Dialer = d
	return b
}

func (b *ConfigBuilder) WithBufferSize(n int) *ConfigBuilder {
	b.config.BufferSize = n
	return b
}

func (b *ConfigBuilder) WithWaitBudget(d time.Duration) *ConfigBuilder {
	b.config.WaitBudget = d
	return b
}

func (b *ConfigBuilder) WithScanTimeout(d time.Duration) *ConfigBuilder {
	b.config.ScanTimeout = d
	return b
}

func (b *ConfigBuilder) WithJoinTimeout(d time.Duration) *ConfigBuilder {
	b.config.JoinTimeout = d
	return b
}

func (b *ConfigBuilder) WithResetTimeout(d time.Duration) *ConfigBuilder {
	b.config.ResetTimeout = d
	return b
}

func (b *ConfigBuilder) WithEchoOff(off bool) *ConfigBuilder {
	b.config.EchoOff = off
	return b
}

func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.Logger = l
	return b
}

// Build applies defaults and validates the result.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	c.setDefaults()
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
