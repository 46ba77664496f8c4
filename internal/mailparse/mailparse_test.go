package mailparse

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rexxDigital/snailmail/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildThenParse(t *testing.T) {
	m := types.Mail{
		Sender:    "me@snailmail.com",
		Recipient: "test@snailmail.com",
		Subject:   "anything",
		Body:      "anything at all",
	}

	raw, err := Build(m, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Message-Id:")

	got, err := Parse(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestParseMultipartPrefersPlain(t *testing.T) {
	raw := strings.Join([]string{
		"From: Beetle <beetle@snailmail.com>",
		"To: me@snailmail.com",
		"Subject: =?UTF-8?Q?Bonjour_=C3=A0_toi?=",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="b1"`,
		"",
		"--b1",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>*beetle noises*</p>",
		"--b1",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"*beetle noises*",
		"--b1--",
		"",
	}, "\r\n")

	got, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "beetle@snailmail.com", got.Sender)
	assert.Equal(t, "me@snailmail.com", got.Recipient)
	assert.Equal(t, "Bonjour à toi", got.Subject)
	assert.Equal(t, "*beetle noises*", got.Body)
}

func TestParseLatin1Body(t *testing.T) {
	raw := "From: clam@snailmail.com\r\n" +
		"To: me@snailmail.com\r\n" +
		"Subject: Cafe\r\n" +
		"Content-Type: text/plain; charset=iso-8859-1\r\n" +
		"\r\n" +
		"Caf\xe9\r\n"

	got, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "Café", got.Body)
}

func TestDecodeCharset(t *testing.T) {
	tests := []struct {
		name    string
		charset string
		input   []byte
		want    string
	}{
		{name: "utf-8 passthrough", charset: "UTF-8", input: []byte("I am a snail"), want: "I am a snail"},
		{name: "latin1", charset: "ISO-8859-1", input: []byte{'C', 'a', 'f', 0xe9}, want: "Café"},
		{name: "windows-1252", charset: "windows-1252", input: []byte{0x93, 'h', 'i', 0x94}, want: "“hi”"},
		{name: "unknown charset passthrough", charset: "x-snail", input: []byte("slow"), want: "slow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCharset(tt.charset, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
