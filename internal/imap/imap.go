package imap

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/rexxDigital/snailmail/internal/config"
	"github.com/rexxDigital/snailmail/internal/logging"
	"github.com/rexxDigital/snailmail/internal/mailparse"
	"github.com/rexxDigital/snailmail/types"
)

type Deliverer interface {
	Deliver(ctx context.Context, m types.Mail) error
}

// Importer copies the newest messages of a remote folder into the inbox.
// Messages already imported by this process are skipped.
type Importer struct {
	account   config.IMAPConfig
	password  string
	deliverer Deliverer

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewImporter(account config.IMAPConfig, password string, deliverer Deliverer) *Importer {
	return &Importer{
		account:   account,
		password:  password,
		deliverer: deliverer,
		seen:      make(map[string]struct{}),
	}
}

// Import fetches up to the configured limit of messages from folder and
// returns how many were delivered.
func (i *Importer) Import(ctx context.Context, folder string) (int, error) {
	client, err := imapclient.DialTLS(fmt.Sprintf("%v:%v", i.account.Server, i.account.Port), nil)
	if err != nil {
		return 0, fmt.Errorf("[IMAP::Import] failed to dial: %w", err)
	}
	defer client.Close()

	if err = client.Login(i.account.Username, i.password).Wait(); err != nil {
		return 0, fmt.Errorf("[IMAP::Import] failed to login: %w", err)
	}

	mbox, err := client.Select(folder, nil).Wait()
	if err != nil {
		return 0, fmt.Errorf("[IMAP::Import] failed to select folder: %w", err)
	}

	start, stop, ok := fetchWindow(mbox.NumMessages, i.account.Limit)
	if !ok {
		return 0, client.Logout().Wait()
	}

	var seqSet imap.SeqSet
	seqSet.AddRange(start, stop)

	section := &imap.FetchItemBodySection{}
	fetchOptions := &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{section},
	}

	messages, err := client.Fetch(seqSet, fetchOptions).Collect()
	if err != nil {
		return 0, fmt.Errorf("[IMAP::Import] failed to fetch messages: %w", err)
	}

	imported := 0
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return imported, err
		}

		messageID := ""
		if msg.Envelope != nil {
			messageID = msg.Envelope.MessageID
		}
		key := seenKey(folder, mbox.UIDValidity, msg.UID, messageID)
		if i.alreadySeen(key) {
			continue
		}

		mail, err := mailparse.Parse(bytes.NewReader(msg.FindBodySection(section)))
		if err != nil {
			logging.Log.WithError(err).WithField("message_id", messageID).Warn("[IMAP::Import] skipping unparsable message")
			continue
		}

		if err := i.deliverer.Deliver(ctx, mail); err != nil {
			logging.Log.WithError(err).WithField("message_id", messageID).Warn("[IMAP::Import] failed to deliver")
			continue
		}

		i.markSeen(key)
		imported++
	}

	return imported, client.Logout().Wait()
}

// seenKey identifies a message by its Message-ID, or by its place in the
// folder when it has none.
func seenKey(folder string, uidValidity uint32, uid imap.UID, messageID string) string {
	if messageID != "" {
		return "id:" + messageID
	}
	return fmt.Sprintf("uid:%s/%d/%d", folder, uidValidity, uid)
}

func (i *Importer) alreadySeen(key string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.seen[key]
	return ok
}

func (i *Importer) markSeen(key string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.seen[key] = struct{}{}
}

// fetchWindow returns the sequence range of the newest limit messages.
func fetchWindow(numMessages uint32, limit int) (start, stop uint32, ok bool) {
	if numMessages == 0 {
		return 0, 0, false
	}
	start = 1
	if limit > 0 && numMessages > uint32(limit) {
		start = numMessages - uint32(limit) + 1
	}
	return start, numMessages, true
}
