package mailparse

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/rexxDigital/snailmail/internal/logging"
	"github.com/rexxDigital/snailmail/types"
)

// Parse reads an RFC 5322 message into a Mail. The first text/plain part is
// the body; text/html is used only when no plain part exists.
func Parse(r io.Reader) (types.Mail, error) {
	mailReader, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return types.Mail{}, fmt.Errorf("[MAILPARSE::Parse] could not create mail reader: %w", err)
	}
	defer mailReader.Close()

	header := mailReader.Header

	var m types.Mail
	m.Subject, _ = header.Subject()
	m.Sender = firstAddress(header, "From")
	m.Recipient = firstAddress(header, "To")

	var plain, html string
	for {
		part, err := mailReader.NextPart()
		if err == io.EOF {
			break
		} else if message.IsUnknownCharset(err) {
			logging.Log.WithError(err).Debug("[MAILPARSE::Parse] unknown charset, decoding ourselves")
		} else if err != nil {
			return types.Mail{}, fmt.Errorf("[MAILPARSE::Parse] could not read mail part: %w", err)
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		ct, params, _ := h.ContentType()
		raw, err := io.ReadAll(part.Body)
		if err != nil {
			return types.Mail{}, fmt.Errorf("[MAILPARSE::Parse] could not read body: %w", err)
		}

		text, err := DecodeCharset(params["charset"], raw)
		if err != nil {
			logging.Log.WithError(err).Warn("[MAILPARSE::Parse] could not decode charset")
			text = string(raw)
		}

		switch {
		case ct == "text/plain" && plain == "":
			plain = text
		case ct == "text/html" && html == "":
			html = text
		}
	}

	if plain != "" {
		m.Body = plain
	} else {
		m.Body = html
	}
	m.Body = strings.TrimRight(m.Body, "\r\n")

	return m, nil
}

func firstAddress(h mail.Header, key string) string {
	addrs, err := h.AddressList(key)
	if err != nil || len(addrs) == 0 {
		return strings.TrimSpace(h.Get(key))
	}
	return addrs[0].Address
}

// Build renders m as a plain text RFC 5322 message.
func Build(m types.Mail, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Address: m.Sender}})
	h.SetAddressList("To", []*mail.Address{{Address: m.Recipient}})
	h.SetSubject(m.Subject)
	h.SetContentType("text/plain", map[string]string{"charset": "UTF-8"})
	h.Set("User-Agent", "snailmail/1.0")
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("[MAILPARSE::Build] could not generate message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("[MAILPARSE::Build] could not create writer: %w", err)
	}
	if _, err := io.WriteString(w, m.Body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
