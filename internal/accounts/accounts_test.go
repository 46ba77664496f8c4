package accounts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestResolvePassword(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, SetPassword(Relay, "snail", "shell"))

	got, err := ResolvePassword(Relay, "snail", "")
	require.NoError(t, err)
	assert.Equal(t, "shell", got)

	got, err = ResolvePassword(Relay, "snail", "from-env")
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	got, err = ResolvePassword(Relay, "", "")
	require.NoError(t, err)
	assert.Empty(t, got)

	// kinds do not share secrets
	_, err = ResolvePassword(IMAP, "snail", "")
	assert.True(t, errors.Is(err, keyring.ErrNotFound))
}

func TestDeletePassword(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, SetPassword(IMAP, "slug", "slime"))
	require.NoError(t, DeletePassword(IMAP, "slug"))

	_, err := GetPassword(IMAP, "slug")
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}
