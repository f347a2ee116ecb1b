package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults are applied", func(t *testing.T) {
		config, err := LoadConfig(WithDefaults())
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if config.BindAddress != "0.0.0.0:8080" {
			t.Errorf("BindAddress = %q, want %q", config.BindAddress, "0.0.0.0:8080")
		}
		if config.SerialPort != "/dev/ttyUSB0" {
			t.Errorf("SerialPort = %q, want %q", config.SerialPort, "/dev/ttyUSB0")
		}
		if config.BaudRate != 115200 {
			t.Errorf("BaudRate = %d, want 115200", config.BaudRate)
		}
		if config.BufferSize != 256 {
			t.Errorf("BufferSize = %d, want 256", config.BufferSize)
		}
		if config.Simulate != "" || config.EchoOff {
			t.Errorf("Simulate = %q, EchoOff = %v, want empty and false", config.Simulate, config.EchoOff)
		}
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("WIFILINK_SERIAL_PORT", "/dev/ttyACM1")
		t.Setenv("WIFILINK_BAUD_RATE", "9600")
		t.Setenv("WIFILINK_ECHO_OFF", "true")

		config, err := LoadConfig(WithDefaults(), WithEnv())
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if config.SerialPort != "/dev/ttyACM1" {
			t.Errorf("SerialPort = %q, want %q", config.SerialPort, "/dev/ttyACM1")
		}
		if config.BaudRate != 9600 {
			t.Errorf("BaudRate = %d, want 9600", config.BaudRate)
		}
		if !config.EchoOff {
			t.Error("EchoOff = false, want true")
		}
		if config.BindAddress != "0.0.0.0:8080" {
			t.Errorf("BindAddress = %q, want default", config.BindAddress)
		}
	})

	t.Run("File overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wifilink.yaml")
		content := "serial-port: /dev/ttyS3\nbuffer-size: 512\nsimulate: builtin\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		config, err := LoadConfig(WithDefaults(), WithFile(path))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if config.SerialPort != "/dev/ttyS3" {
			t.Errorf("SerialPort = %q, want %q", config.SerialPort, "/dev/ttyS3")
		}
		if config.BufferSize != 512 {
			t.Errorf("BufferSize = %d, want 512", config.BufferSize)
		}
		if config.Simulate != "builtin" {
			t.Errorf("Simulate = %q, want %q", config.Simulate, "builtin")
		}
	})

	t.Run("Empty file path is ignored", func(t *testing.T) {
		if _, err := LoadConfig(WithDefaults(), WithFile("")); err != nil {
			t.Errorf("LoadConfig() error = %v", err)
		}
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := LoadConfig(WithFile(filepath.Join(t.TempDir(), "missing.yaml")))
		if err == nil {
			t.Error("LoadConfig() error = nil, want error")
		}
	})

	t.Run("Only flags that were set override", func(t *testing.T) {
		t.Setenv("WIFILINK_LOG_LEVEL", "warn")

		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.String("log-level", "info", "")
		fs.String("serial-port", "/dev/ttyUSB0", "")
		if err := fs.Parse([]string{"--serial-port", "/dev/ttyUSB9"}); err != nil {
			t.Fatal(err)
		}

		config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(fs))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if config.SerialPort != "/dev/ttyUSB9" {
			t.Errorf("SerialPort = %q, want %q", config.SerialPort, "/dev/ttyUSB9")
		}
		if config.LogLevel != "warn" {
			t.Errorf("LogLevel = %q, want %q from environment", config.LogLevel, "warn")
		}
	})

	t.Run("Invalid numbers are rejected", func(t *testing.T) {
		t.Setenv("WIFILINK_BUFFER_SIZE", "lots")
		if _, err := LoadConfig(WithDefaults(), WithEnv()); err == nil {
			t.Error("LoadConfig() error = nil, want error")
		}
	})
}

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			config := &Config{LogLevel: tt.level}
			if got := config.Level(); got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}
