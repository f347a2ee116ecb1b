package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"i4.energy/across/wifilink/at"
	"i4.energy/across/wifilink/modem"
)

// Session is the part of a modem session the server exposes.
type Session interface {
	QueryStatus() (modem.Status, error)
	Join(ssid, password string) (at.Outcome, error)
	StationIP() (string, error)
}

// Server handles incoming HTTP requests for interacting with the
// configured module. Requests are served one at a time since a session
// is not safe for concurrent use.
type Server struct {
	Logger  *slog.Logger
	Session Session

	mu sync.Mutex
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /join", s.handleJoin)
	mux.HandleFunc("GET /ip", s.handleIP)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	s.sendJSON(w, ErrorResponse{Message: message}, statusCode)
}

func (s *Server) sendJSON(w http.ResponseWriter, body any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.Logger.Warn("Failed to write response", "error", err)
	}
}

// handleStatus reports the connection status of the module
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status, err := s.Session.QueryStatus()
	s.mu.Unlock()
	if err != nil {
		s.Logger.Error("Failed to query status", "error", err)
		s.sendError(w, err.Error(), http.StatusGatewayTimeout)
		return
	}

	type StatusResponse struct {
		Status string `json:"status"`
	}
	s.sendJSON(w, StatusResponse{Status: status.String()}, http.StatusOK)
}

// handleJoin associates the module with the requested access point
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	type JoinRequest struct {
		SSID     string `json:"ssid"`
		Password string `json:"password"`
	}

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.SSID == "" {
		s.sendError(w, "'ssid' field is required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	outcome, err := s.Session.Join(req.SSID, req.Password)
	s.mu.Unlock()

	type JoinResponse struct {
		Outcome string `json:"outcome"`
	}
	switch {
	case errors.Is(err, modem.ErrAlreadyConnected):
		s.sendJSON(w, JoinResponse{Outcome: outcome.String()}, http.StatusConflict)
		return
	case err != nil:
		s.Logger.Error("Failed to join access point", "error", err, "ssid", req.SSID)
		s.sendError(w, err.Error(), http.StatusBadGateway)
		return
	}

	s.Logger.Info("Join finished", "ssid", req.SSID, "outcome", outcome.String())
	statusCode := http.StatusOK
	switch outcome {
	case at.OutcomeOK, at.OutcomeConnect:
	case at.OutcomeTimeout:
		statusCode = http.StatusGatewayTimeout
	default:
		statusCode = http.StatusBadGateway
	}
	s.sendJSON(w, JoinResponse{Outcome: outcome.String()}, statusCode)
}

// handleIP reports the station address of the module
func (s *Server) handleIP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	address, err := s.Session.StationIP()
	s.mu.Unlock()
	if err != nil {
		s.Logger.Error("Failed to fetch station address", "error", err)
		s.sendError(w, err.Error(), http.StatusGatewayTimeout)
		return
	}

	type IPResponse struct {
		Address string `json:"address"`
	}
	s.sendJSON(w, IPResponse{Address: address}, http.StatusOK)
}
