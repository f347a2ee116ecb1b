package modem_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.bug.st/serial"
	"go.uber.org/mock/gomock"

	"i4.energy/across/wifilink/modem"
)

func TestSerialDialer(t *testing.T) {
	t.Run("Empty port name is rejected", func(t *testing.T) {
		transport, err := modem.SerialDialer{}.Dial(context.Background())
		if err == nil || err.Error() != "wifilink: serial port name is required" {
			t.Errorf("unexpected error: %v", err)
		}
		if transport != nil {
			t.Error("expected nil transport for empty port name")
		}
	})

	t.Run("Canceled context is returned before opening the port", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		transport, err := modem.SerialDialer{PortName: "/dev/nonexistent"}.Dial(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got: %v", err)
		}
		if transport != nil {
			t.Error("expected nil transport for canceled context")
		}
	})

	tests := []struct {
		name string
		mode *serial.Mode
	}{
		{name: "Open failure names the port with the default mode"},
		{
			name: "Open failure names the port with an explicit mode",
			mode: &serial.Mode{
				BaudRate: 9600,
				Parity:   serial.NoParity,
				DataBits: 8,
				StopBits: serial.OneStopBit,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialer := modem.SerialDialer{PortName: "/dev/nonexistent", Mode: tt.mode}
			transport, err := dialer.Dial(context.Background())
			if err == nil {
				t.Fatal("expected error for non-existent port")
			}
			if !strings.Contains(err.Error(), `open serial port "/dev/nonexistent"`) {
				t.Errorf("expected port name in error, got: %v", err)
			}
			if transport != nil {
				t.Error("expected nil transport for non-existent port")
			}
		})
	}
}

func TestModemDial(t *testing.T) {
	t.Run("Dial receives the caller's context", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "session")

		mockTransport := modem.NewMockTransport(ctrl)
		mockDialer := modem.NewMockDialer(ctrl)
		mockDialer.EXPECT().Dial(gomock.Any()).DoAndReturn(func(got context.Context) (modem.Transport, error) {
			if got.Value(key{}) != "session" {
				t.Error("Dial did not receive the context passed to New")
			}
			return mockTransport, nil
		})
		mockTransport.EXPECT().Close().Return(nil)

		config, err := modem.NewConfigBuilder().WithDialer(mockDialer).Build()
		if err != nil {
			t.Fatalf("unexpected error from Build(): %v", err)
		}
		m, err := modem.New(ctx, config)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := m.Close(); err != nil {
			t.Errorf("unexpected error from Close(): %v", err)
		}
	})

	t.Run("Dial errors are wrapped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		dialErr := errors.New("port busy")
		mockDialer := modem.NewMockDialer(ctrl)
		mockDialer.EXPECT().Dial(gomock.Any()).Return(nil, dialErr)

		config, err := modem.NewConfigBuilder().WithDialer(mockDialer).Build()
		if err != nil {
			t.Fatalf("unexpected error from Build(): %v", err)
		}
		_, err = modem.New(context.Background(), config)
		if !errors.Is(err, dialErr) {
			t.Errorf("expected dial error in chain, got: %v", err)
		}
		if err == nil || err.Error() != "dial: port busy" {
			t.Errorf("expected %q, got: %v", "dial: port busy", err)
		}
	})

	t.Run("Transport is closed once and its error returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		closeErr := errors.New("port vanished")
		mockTransport := modem.NewMockTransport(ctrl)
		mockDialer := modem.NewMockDialer(ctrl)
		mockDialer.EXPECT().Dial(gomock.Any()).Return(mockTransport, nil)
		mockTransport.EXPECT().Close().Return(closeErr).Times(1)

		config, err := modem.NewConfigBuilder().WithDialer(mockDialer).Build()
		if err != nil {
			t.Fatalf("unexpected error from Build(): %v", err)
		}
		m, err := modem.New(context.Background(), config)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := m.Close(); !errors.Is(err, closeErr) {
			t.Errorf("expected close error, got: %v", err)
		}
		if err := m.Close(); !errors.Is(err, modem.ErrAlreadyClosed) {
			t.Errorf("expected ErrAlreadyClosed, got: %v", err)
		}
	})
}
