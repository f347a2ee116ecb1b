package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
	"go.uber.org/atomic"

	"i4.energy/across/wifilink/modem"
	"i4.energy/across/wifilink/ring"
	"i4.energy/across/wifilink/sim"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	config     *Config
	logger     *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "wifilink",
		Short: "Drive an ESP-AT WiFi module over a serial line",
		Long: `Drive an ESP-AT WiFi module over a serial line.

Every command opens the module, runs one exchange and closes it again,
except serve, which keeps the module open behind an HTTP API.

Configuration is read from flags, WIFILINK_* environment variables and an
optional config file, in that order of precedence.

Example usage:
  wifilink status --serial-port /dev/ttyUSB0
  wifilink join --ssid lab --password secret
  wifilink ip --simulate builtin`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadConfig(
				WithDefaults(),
				WithFile(a.configPath),
				WithEnv(),
				WithFlags(cmd.Flags()),
			)
			if err != nil {
				return err
			}
			a.config = config
			a.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: config.Level()}))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (YAML, TOML or JSON)")
	flags.String("serial-port", "/dev/ttyUSB0", "Serial port the module is attached to")
	flags.Int("baud-rate", modem.DefaultBaudRate, "Baud rate for serial communication")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Int("buffer-size", ring.DefaultCapacity, "Capacity of each UART ring buffer")
	flags.String("simulate", "", `Use a scripted module instead of the serial port ("builtin" or a YAML script)`)
	flags.Bool("echo-off", false, "The module has command echo disabled")

	rootCmd.AddCommand(
		newStatusCmd(a),
		newJoinCmd(a),
		newIPCmd(a),
		newResetCmd(a),
		newPortsCmd(),
		newServeCmd(a),
	)
	return rootCmd
}

// openModem dials the module and starts its loop. The returned function
// closes the session and waits for the loop to end.
func (a *app) openModem(ctx context.Context) (*modem.Modem, func(), error) {
	dialer, err := a.dialer()
	if err != nil {
		return nil, nil, err
	}

	config, err := modem.NewConfigBuilder().
		WithDialer(dialer).
		WithBufferSize(a.config.BufferSize).
		WithEchoOff(a.config.EchoOff).
		WithLogger(a.logger).
		Build()
	if err != nil {
		return nil, nil, fmt.Errorf("modem config: %w", err)
	}

	m, err := modem.New(ctx, config)
	if err != nil {
		return nil, nil, fmt.Errorf("open modem: %w", err)
	}

	var closing atomic.Bool
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := m.Loop(ctx); err != nil && ctx.Err() == nil && !closing.Load() {
			a.logger.Warn("Modem loop stopped", "error", err)
		}
	}()

	closeFn := func() {
		closing.Store(true)
		if err := m.Close(); err != nil {
			a.logger.Error("Failed to close modem", "error", err)
		}
		<-loopDone
	}
	return m, closeFn, nil
}

func (a *app) dialer() (modem.Dialer, error) {
	switch a.config.Simulate {
	case "":
		return modem.SerialDialer{
			PortName: a.config.SerialPort,
			Mode: &serial.Mode{
				BaudRate: a.config.BaudRate,
				Parity:   serial.NoParity,
				DataBits: 8,
				StopBits: serial.OneStopBit,
			},
		}, nil
	case "builtin":
		return simDialer{script: sim.DefaultScript(), logger: a.logger}, nil
	default:
		script, err := sim.LoadScript(a.config.Simulate)
		if err != nil {
			return nil, err
		}
		return simDialer{script: script, logger: a.logger}, nil
	}
}

// simDialer connects to a fresh scripted module.
type simDialer struct {
	script *sim.Script
	logger *slog.Logger
}

func (d simDialer) Dial(ctx context.Context) (modem.Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sim.NewDevice(d.script, d.logger), nil
}
