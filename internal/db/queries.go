package db

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rexxDigital/snailmail/types"
)

const (
	listMail   = `SELECT sender, recipient, subject, body FROM mail ORDER BY seq`
	countMail  = `SELECT COUNT(*) FROM mail`
	insertMail = `INSERT INTO mail (id, sender, recipient, subject, body, created_at) VALUES (?, ?, ?, ?, ?, ?)`
)

// ListMail returns every stored message in insertion order.
func (c *Client) ListMail(ctx context.Context) ([]types.Mail, error) {
	rows, err := c.DB.QueryContext(ctx, c.rebind(listMail))
	if err != nil {
		return nil, errors.Wrap(err, "list mail")
	}
	defer rows.Close()

	inbox := make([]types.Mail, 0)
	for rows.Next() {
		var m types.Mail
		if err := rows.Scan(&m.Sender, &m.Recipient, &m.Subject, &m.Body); err != nil {
			return nil, errors.Wrap(err, "scan mail")
		}
		inbox = append(inbox, m)
	}

	return inbox, errors.Wrap(rows.Err(), "list mail")
}

func (c *Client) InsertMail(ctx context.Context, m types.Mail) error {
	_, err := c.DB.ExecContext(ctx, c.rebind(insertMail),
		uuid.New().String(),
		m.Sender,
		m.Recipient,
		m.Subject,
		m.Body,
		time.Now().UTC(),
	)
	return errors.Wrap(err, "insert mail")
}

func (c *Client) CountMail(ctx context.Context) (int, error) {
	var n int
	if err := c.DB.QueryRowContext(ctx, c.rebind(countMail)).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count mail")
	}
	return n, nil
}

// SeedInbox inserts mails only when the store is empty.
func (c *Client) SeedInbox(ctx context.Context, mails []types.Mail) error {
	n, err := c.CountMail(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin seed")
	}
	defer tx.Rollback()

	for _, m := range mails {
		_, err := tx.ExecContext(ctx, c.rebind(insertMail),
			uuid.New().String(), m.Sender, m.Recipient, m.Subject, m.Body, time.Now().UTC())
		if err != nil {
			return errors.Wrap(err, "seed mail")
		}
	}

	return errors.Wrap(tx.Commit(), "commit seed")
}

// rebind turns ? placeholders into $n for postgres.
func (c *Client) rebind(query string) string {
	if c.driver != "postgres" {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
