package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"i4.energy/across/wifilink/modem"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Query the connection status of the module",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := a.openModem(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			status, err := m.QueryStatus()
			if err != nil {
				a.logger.Error("Failed to query status", "error", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), field("status", status.String(), statusStyle(status)))
			return nil
		},
	}
}

func newJoinCmd(a *app) *cobra.Command {
	var (
		ssid      string
		password  string
		noSpinner bool
	)

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join an access point",
		Long: `Join an access point in station mode.

The module's status is queried first: a module that is already associated
is left alone, one whose link was lost leaves its access point before the
join command is sent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := a.openModem(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if noSpinner {
				outcome, err := m.Join(ssid, password)
				view := &joinModel{ssid: ssid, done: true, outcome: outcome, err: err}
				fmt.Fprintln(cmd.OutOrStdout(), view.result())
				if err != nil && !errors.Is(err, modem.ErrAlreadyConnected) {
					return err
				}
				return nil
			}

			model := newJoinModel(m, ssid, password)
			p := tea.NewProgram(model, tea.WithContext(cmd.Context()), tea.WithOutput(cmd.OutOrStdout()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("join view: %w", err)
			}
			if model.err != nil && !errors.Is(model.err, modem.ErrAlreadyConnected) {
				return model.err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ssid, "ssid", "", "Access point name")
	cmd.Flags().StringVar(&password, "password", "", "Access point password")
	cmd.Flags().BoolVar(&noSpinner, "no-spinner", false, "Print the outcome without the interactive view")
	_ = cmd.MarkFlagRequired("ssid")
	return cmd
}

func newIPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ip",
		Short: "Print the station address of the module",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := a.openModem(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			address, err := m.StationIP()
			if err != nil {
				a.logger.Error("Failed to fetch station address", "error", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), field("address", address, okStyle))
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restart the module and wait until it is ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := a.openModem(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := m.Reset(); err != nil {
				a.logger.Error("Failed to reset module", "error", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), field("module", "ready", okStyle))
			return nil
		},
	}
}

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List available serial ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := modem.ListPorts()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ports) == 0 {
				fmt.Fprintln(out, warnStyle.Render("No serial ports found"))
				return nil
			}
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Found %d serial port(s):", len(ports))))
			for _, port := range ports {
				fmt.Fprintln(out, "  "+port)
			}
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the module over HTTP",
		Long: `Keep the module open and serve it over HTTP.

Endpoints:
  GET  /status  connection status
  POST /join    {"ssid": "...", "password": "..."}
  GET  /ip      station address`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := a.logger

			m, closeFn, err := a.openModem(ctx)
			if err != nil {
				logger.Error("Failed to create modem", "error", err)
				return err
			}

			logger.Info("Starting WiFi link", "serial_port", a.config.SerialPort, "simulate", a.config.Simulate)

			httpServer := &http.Server{
				Addr: a.config.BindAddress,
				Handler: &Server{
					Logger:  logger.With("component", "server"),
					Session: m,
				},
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "address", httpServer.Addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case <-ctx.Done():
				logger.Info("Received shutdown signal")
			case err := <-serveErr:
				logger.Error("HTTP server failed", "error", err)
				closeFn()
				return err
			}

			logger.Info("Closing modem connection")
			closeFn()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			logger.Info("Closing HTTP server")
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to gracefully shutdown server", "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server")
	return cmd
}
