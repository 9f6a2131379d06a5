package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/atomic"

	"github.com/vexlabs/device-agent/common"
	"github.com/vexlabs/device-agent/cryptoutils"
	"github.com/vexlabs/device-agent/interfaces"
	"github.com/vexlabs/device-agent/metrics"
	"github.com/vexlabs/device-agent/registry"
	"github.com/vexlabs/device-agent/securechannel"
	"github.com/vexlabs/device-agent/tasks"
)

// Server is the assembled connected-device server. Its configuration
// is immutable after Build; RunForever owns the process from the
// moment it is called.
type Server struct {
	log     *slog.Logger
	isReady atomic.Bool

	store      interfaces.CredentialStore
	info       ProvisioningInfo
	channel    *securechannel.Backend
	registry   *registry.ComponentRegistry
	netManager interfaces.NetworkManager
	advertiser interfaces.Advertiser
	runner     *tasks.Runner

	srv        *http.Server
	metricsSrv *metrics.MetricsServer
	port       int
}

func newTLSConfig(cert tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
}

func (s *Server) pairingToken(creds interfaces.DeviceCredentials) (string, error) {
	return cryptoutils.DerivePairingToken(creds.Secret, creds.ID)
}

func (s *Server) router() http.Handler {
	mux := chi.NewRouter()

	mux.With(s.httpLogger).Get("/status", s.handleStatus)
	mux.With(s.httpLogger).Get("/identity", s.handleIdentity)
	mux.With(s.httpLogger).Post("/pairing/credentials", s.handlePairing)

	mux.With(s.httpLogger).Get("/livez", s.handleLivenessCheck)
	mux.With(s.httpLogger).Get("/readyz", s.handleReadinessCheck)

	return mux
}

func (s *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(s.log, next)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusResponse struct {
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	Version      string   `json:"version"`
	Fingerprint  string   `json:"fingerprint"`
	Provisioned  bool     `json:"provisioned"`
	Models       []string `json:"models"`
	ActiveLinks  []string `json:"active_links"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	links, err := s.netManager.ActiveLinks()
	if err != nil {
		s.log.Warn("Link state query failed", "err", err)
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Manufacturer: s.info.Manufacturer,
		Model:        s.info.Model,
		Version:      common.Version,
		Fingerprint:  s.channel.Fingerprint(),
		Provisioned:  s.store.HasDeviceCredentials(),
		Models:       s.registry.Models(),
		ActiveLinks:  links,
	})
}

type identityResponse struct {
	Fingerprint string `json:"fingerprint"`
	CertPEM     string `json:"cert_pem"`
}

// handleIdentity returns the transport certificate for fingerprint
// pinning. Only a caller that knows the device secret can derive the
// pairing token, so an unprovisioned device has nothing to serve here.
func (s *Server) handleIdentity(w http.ResponseWriter, r *http.Request) {
	creds, err := s.store.DeviceCredentials()
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "device is not provisioned"})
		return
	}

	expected, err := s.pairingToken(creds)
	if err != nil {
		s.log.Error("Failed to derive pairing token", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+expected {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid pairing token"})
		return
	}

	writeJSON(w, http.StatusOK, identityResponse{
		Fingerprint: s.channel.Fingerprint(),
		CertPEM:     string(s.channel.Identity().CertPEM()),
	})
}

type pairingRequest struct {
	ID         string `json:"id"`
	Secret     string `json:"secret"`
	AppAddress string `json:"app_address"`
	SSID       string `json:"ssid"`
	Password   string `json:"password"`
}

// handlePairing is the provisioning surface for the absence path: a
// device that booted with neither stored nor fallback credentials
// accepts them here exactly once.
func (s *Server) handlePairing(w http.ResponseWriter, r *http.Request) {
	if s.store.HasDeviceCredentials() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "device is already provisioned"})
		return
	}

	var req pairingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed pairing request"})
		return
	}

	creds, err := interfaces.NewDeviceCredentials(req.ID, req.Secret, req.AppAddress)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.store.StoreDeviceCredentials(creds); err != nil {
		s.log.Error("Failed to persist paired credentials", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.log.Info("Device credentials received through pairing",
		slog.String("device_id", creds.ID))

	// The network pair is optional in the same request; incomplete
	// pairs are rejected by the store's validation.
	if req.SSID != "" || req.Password != "" {
		if err := s.store.StoreDefaultNetwork(req.SSID, req.Password); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.log.Info("Default network received through pairing", slog.String("ssid", req.SSID))
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "paired"})
}

func (s *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if !s.isReady.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// RunForever starts the background pieces and blocks serving the
// secure listener. It returns only on a fatal listener error; there is
// no graceful shutdown path by design, a device restart is the only
// exit.
func (s *Server) RunForever(ctx context.Context) error {
	if s.metricsSrv != nil {
		go func() {
			s.log.Info("Starting metrics server")
			if err := s.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error("Metrics server failed", "err", err)
			}
		}()
	}

	if s.advertiser != nil {
		if err := s.advertiser.Start(); err != nil {
			// Discovery is an optional aid; the server itself still runs.
			s.log.Warn("Failed to start discovery advertiser", "err", err)
		}
	}

	s.runner.Start(ctx)

	s.log.Info("Starting device server",
		slog.Int("port", s.port),
		slog.String("fingerprint", s.channel.Fingerprint()))
	// Certificate and key come from the TLS config built at assembly.
	return s.srv.ListenAndServeTLS("", "")
}
