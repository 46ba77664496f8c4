package services

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/rexxDigital/snailmail/internal/logging"
	"github.com/rexxDigital/snailmail/types"
)

// MaxSubjectLength is the longest subject the backend accepts, in characters.
const MaxSubjectLength = 20

const (
	outboxSize   = 100
	relayTimeout = time.Minute
)

var (
	ErrEmptyRecipient = errors.New("Recipient cannot be empty!")
	ErrSubjectTooLong = errors.New("Save it for the message body, buddy")
)

type Store interface {
	ListMail(ctx context.Context) ([]types.Mail, error)
	InsertMail(ctx context.Context, m types.Mail) error
}

// Relayer hands an accepted mail to an outbound transport.
type Relayer interface {
	Relay(ctx context.Context, m types.Mail) error
}

type MailService interface {
	Inbox(ctx context.Context) ([]types.Mail, error)
	Send(ctx context.Context, m types.Mail) (types.Mail, error)
	Deliver(ctx context.Context, m types.Mail) error
	Close()
}

type mailService struct {
	store   Store
	relayer Relayer
	outbox  chan types.Mail

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMailService returns a service backed by store. relayer may be nil;
// when set, accepted mail is relayed by a background worker until Close.
func NewMailService(store Store, relayer Relayer) MailService {
	s := &mailService{
		store:   store,
		relayer: relayer,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if relayer != nil {
		s.outbox = make(chan types.Mail, outboxSize)
		s.wg.Add(1)
		go s.relayWorker()
	}

	return s
}

// Close stops the relay worker. Mail still queued is not relayed.
func (s *mailService) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *mailService) Inbox(ctx context.Context) ([]types.Mail, error) {
	inbox, err := s.store.ListMail(ctx)
	if err != nil {
		return nil, err
	}
	if inbox == nil {
		inbox = []types.Mail{}
	}
	return inbox, nil
}

// Send records m and queues it for relaying. A rejected mail leaves no trace
// in the store. Relaying never holds up the caller.
func (s *mailService) Send(ctx context.Context, m types.Mail) (types.Mail, error) {
	if strings.TrimSpace(m.Recipient) == "" {
		return types.Mail{}, ErrEmptyRecipient
	}
	// TODO: validate the remaining fields once the client stops doing it for us
	if utf8.RuneCountInString(m.Subject) > MaxSubjectLength {
		return types.Mail{}, ErrSubjectTooLong
	}

	if err := s.store.InsertMail(ctx, m); err != nil {
		return types.Mail{}, errors.Wrap(err, "send mail")
	}

	s.enqueueRelay(m)

	return m, nil
}

func (s *mailService) enqueueRelay(m types.Mail) {
	if s.outbox == nil {
		return
	}
	select {
	case s.outbox <- m:
	default:
		logging.Log.WithField("recipient", m.Recipient).Warn("relay queue full, mail not relayed")
	}
}

func (s *mailService) relayWorker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case m := <-s.outbox:
			s.relay(m)
		}
	}
}

func (s *mailService) relay(m types.Mail) {
	ctx, cancel := context.WithTimeout(s.ctx, relayTimeout)
	defer cancel()

	if err := s.relayer.Relay(ctx, m); err != nil {
		logging.Log.WithError(err).WithField("recipient", m.Recipient).Warn("relay failed")
	}
}

// Deliver stores mail that arrived over SMTP or IMAP.
func (s *mailService) Deliver(ctx context.Context, m types.Mail) error {
	if strings.TrimSpace(m.Recipient) == "" {
		return ErrEmptyRecipient
	}
	return errors.Wrap(s.store.InsertMail(ctx, m), "deliver mail")
}

// SeedInbox is the inbox a fresh store starts with.
var SeedInbox = []types.Mail{
	{Sender: "snail@snailmail.com", Recipient: "me@snailmail.com", Subject: "Hey", Body: "I am a snail"},
	{Sender: "snail@snailmail.com", Recipient: "me@snailmail.com", Subject: "Hey", Body: "I have a shell"},
	{Sender: "slug@snailmail.com", Recipient: "me@snailmail.com", Subject: "Hey", Body: "I am a slug"},
	{Sender: "clam@snailmail.com", Recipient: "me@snailmail.com", Subject: "Hey", Body: "..."},
}
