package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rexxDigital/snailmail/internal/config"
	"github.com/rexxDigital/snailmail/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "db.sqlite"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestListMailEmpty(t *testing.T) {
	c := newTestClient(t)

	inbox, err := c.ListMail(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, inbox)
	assert.Empty(t, inbox)
}

func TestInsertKeepsOrder(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	want := []types.Mail{
		{Sender: "snail@snailmail.com", Recipient: "me@snailmail.com", Subject: "Hey", Body: "I am a snail"},
		{Sender: "slug@snailmail.com", Recipient: "me@snailmail.com", Subject: "Hey", Body: "I am a slug"},
		{Sender: "clam@snailmail.com", Recipient: "me@snailmail.com", Subject: "Hey", Body: "..."},
	}
	for _, m := range want {
		require.NoError(t, c.InsertMail(ctx, m))
	}

	got, err := c.ListMail(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListMail() mismatch (-want +got):\n%s", diff)
	}
}

func TestSeedInboxOnlyWhenEmpty(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	seed := []types.Mail{
		{Sender: "snail@snailmail.com", Recipient: "me@snailmail.com", Subject: "Hey", Body: "I have a shell"},
	}
	require.NoError(t, c.SeedInbox(ctx, seed))
	require.NoError(t, c.SeedInbox(ctx, seed))

	n, err := c.CountMail(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRebind(t *testing.T) {
	pg := &Client{driver: "postgres"}
	assert.Equal(t, "VALUES ($1, $2, $3)", pg.rebind("VALUES (?, ?, ?)"))

	lite := &Client{driver: "sqlite"}
	assert.Equal(t, "VALUES (?, ?)", lite.rebind("VALUES (?, ?)"))
}

func TestUnknownDriver(t *testing.T) {
	_, err := NewClient(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
