package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rexxDigital/snailmail/internal/config"
	"github.com/rexxDigital/snailmail/internal/server"
	services "github.com/rexxDigital/snailmail/internal/services/mail"
	"github.com/rexxDigital/snailmail/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboxFixture(t *testing.T) {
	fixture := []types.Mail{
		{Sender: "beetle@snailmail.com", Recipient: "me@snailmail.com", Subject: "Hey", Body: "I am a beetle"},
		{Sender: "beetle@snailmail.com", Recipient: "me@snailmail.com", Subject: "Bzz", Body: "*beetle noises*"},
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/mail", r.URL.Path)
		_ = json.NewEncoder(w).Encode(fixture)
	}))
	defer ts.Close()

	inbox, err := New(ts.URL, time.Second).Inbox(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixture, inbox)
}

func TestInboxNoContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	inbox, err := New(ts.URL, time.Second).Inbox(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, inbox)
	assert.Empty(t, inbox)
}

func TestNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url, time.Second).Send(context.Background(), types.Mail{Recipient: "test@snailmail.com"})

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Contains(t, err.Error(), "Network Error")
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "structured", status: http.StatusBadRequest, body: `{"message":"Save it for the message body, buddy"}`, wantMessage: "Save it for the message body, buddy"},
		{name: "empty body", status: http.StatusBadRequest, body: ``, wantMessage: ""},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMessage: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := New(ts.URL, time.Second).Send(context.Background(), types.Mail{})

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

// The client against the real backend, store included.
type memStore struct{ mails []types.Mail }

func (s *memStore) ListMail(context.Context) ([]types.Mail, error) { return s.mails, nil }

func (s *memStore) InsertMail(_ context.Context, m types.Mail) error {
	s.mails = append(s.mails, m)
	return nil
}

func TestAgainstBackend(t *testing.T) {
	srv := server.New(config.ServerConfig{Username: "SnailMailGuy123", Email: "me@snailmail.com"},
		services.NewMailService(&memStore{}, nil))

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.App().Listener(l) }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	c := New("http://"+l.Addr().String(), 2*time.Second)
	ctx := context.Background()

	inbox, err := c.Inbox(ctx)
	require.NoError(t, err)
	assert.Empty(t, inbox)

	draft := types.Mail{Sender: "me@snailmail.com", Recipient: "test@snailmail.com", Subject: "anything", Body: "anything at all"}
	sent, err := c.Send(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, draft, sent)

	_, err = c.Send(ctx, types.Mail{Sender: "me@snailmail.com", Subject: "The backend wont allow this"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.GreaterOrEqual(t, apiErr.StatusCode, 400)
	assert.Empty(t, apiErr.Message)

	inbox, err = c.Inbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Mail{draft}, inbox)

	profile, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SnailMailGuy123", profile.Username)
}
