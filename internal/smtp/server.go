package smtp

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/rexxDigital/snailmail/internal/config"
	"github.com/rexxDigital/snailmail/internal/logging"
	"github.com/rexxDigital/snailmail/types"
)

// Deliverer stores an accepted inbound mail.
type Deliverer interface {
	Deliver(ctx context.Context, m types.Mail) error
}

// Server accepts mail for the configured domain and drops it into the inbox.
type Server struct {
	server  *smtp.Server
	backend *Backend
}

func NewServer(cfg config.SMTPConfig, deliverer Deliverer) *Server {
	backend := NewBackend(deliverer, cfg.Domain)

	server := smtp.NewServer(backend)
	server.Addr = cfg.Addr
	server.Domain = cfg.Domain
	server.ReadTimeout = 30 * time.Second
	server.WriteTimeout = 30 * time.Second
	server.MaxMessageBytes = 10 * 1024 * 1024
	server.MaxRecipients = 10
	server.AllowInsecureAuth = true

	return &Server{
		server:  server,
		backend: backend,
	}
}

// ListenAndServe blocks until Close. A closed server is not an error.
func (s *Server) ListenAndServe() error {
	logging.Log.WithField("addr", s.server.Addr).Info("smtp listening")
	return ignoreClosed(s.server.ListenAndServe())
}

func (s *Server) Serve(l net.Listener) error {
	return ignoreClosed(s.server.Serve(l))
}

func (s *Server) Close() error {
	return s.server.Close()
}

func ignoreClosed(err error) error {
	if errors.Is(err, smtp.ErrServerClosed) {
		return nil
	}
	return err
}
