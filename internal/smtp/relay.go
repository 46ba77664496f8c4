package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/rexxDigital/snailmail/internal/config"
	"github.com/rexxDigital/snailmail/internal/mailparse"
	"github.com/rexxDigital/snailmail/types"
	"golang.org/x/time/rate"
)

// Relay forwards sent mail to an upstream SMTP server.
type Relay struct {
	host     string
	addr     string
	username string
	password string
	timeout  time.Duration
	limiter  *rate.Limiter
}

func NewRelay(cfg config.RelayConfig, password string) *Relay {
	perMinute := cfg.RatePerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Relay{
		host:     cfg.Host,
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		username: cfg.Username,
		password: password,
		timeout:  timeout,
		limiter:  rate.NewLimiter(rate.Every(time.Duration(float64(time.Minute)/perMinute)), 1),
	}
}

// Relay sends mail upstream. The whole exchange, including the wait for the
// rate limiter, is bounded by the relay timeout and by ctx.
func (r *Relay) Relay(ctx context.Context, mail types.Mail) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("[SMTP::Relay] throttled: %w", err)
	}

	message, err := mailparse.Build(mail, time.Now())
	if err != nil {
		return err
	}

	dialer := net.Dialer{Timeout: r.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", r.addr)
	if err != nil {
		return fmt.Errorf("[SMTP::Relay] failed to dial %s: %w", r.addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client := smtp.NewClient(conn)
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: r.host}); err != nil {
			return fmt.Errorf("[SMTP::Relay] failed to start TLS: %w", err)
		}
	}

	if r.username != "" {
		if err := client.Auth(sasl.NewPlainClient("", r.username, r.password)); err != nil {
			return fmt.Errorf("[SMTP::Relay] failed to authenticate: %w", err)
		}
	}

	if err := client.SendMail(mail.Sender, []string{mail.Recipient}, bytes.NewReader(message)); err != nil {
		return fmt.Errorf("[SMTP::Relay] failed to send to %s: %w", r.addr, err)
	}

	return client.Quit()
}
