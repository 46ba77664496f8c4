package smtp

import (
	"context"
	"io"
	"strings"

	"github.com/emersion/go-smtp"
	"github.com/rexxDigital/snailmail/internal/logging"
	"github.com/rexxDigital/snailmail/internal/mailparse"
	"github.com/sirupsen/logrus"
)

type Backend struct {
	deliverer Deliverer
	domain    string
}

func NewBackend(deliverer Deliverer, domain string) *Backend {
	return &Backend{
		deliverer: deliverer,
		domain:    strings.ToLower(domain),
	}
}

func (b *Backend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &Session{backend: b}, nil
}

// Session holds one SMTP transaction.
type Session struct {
	backend *Backend
	from    string
	to      []string
}

func (s *Session) Mail(from string, _ *smtp.MailOptions) error {
	s.from = from
	return nil
}

func (s *Session) Rcpt(to string, _ *smtp.RcptOptions) error {
	if !s.backend.accepts(to) {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 1, 1},
			Message:      "No such mailbox here",
		}
	}
	s.to = append(s.to, to)
	return nil
}

// Data stores one copy of the message per accepted recipient.
func (s *Session) Data(r io.Reader) error {
	mail, err := mailparse.Parse(r)
	if err != nil {
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "Could not parse message",
		}
	}

	if mail.Sender == "" {
		mail.Sender = s.from
	}

	for _, to := range s.to {
		mail.Recipient = to
		if err := s.backend.deliverer.Deliver(context.Background(), mail); err != nil {
			logging.Log.WithError(err).WithField("recipient", to).Error("[SMTP::Data] failed to deliver")
			return err
		}
	}

	logging.Log.WithFields(logrus.Fields{
		"from":       mail.Sender,
		"recipients": len(s.to),
	}).Info("smtp mail delivered")

	return nil
}

func (s *Session) Reset() {
	s.from = ""
	s.to = nil
}

func (s *Session) Logout() error {
	return nil
}

func (b *Backend) accepts(addr string) bool {
	if b.domain == "" {
		return true
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return false
	}
	return strings.ToLower(addr[at+1:]) == b.domain
}
