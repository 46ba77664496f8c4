package accounts

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "snailmail"

// Kind names the remote account a secret belongs to.
type Kind string

const (
	Relay Kind = "relay"
	IMAP  Kind = "imap"
)

func (k Kind) service() string {
	return serviceName + "-" + string(k)
}

func SetPassword(kind Kind, username, password string) error {
	return keyring.Set(kind.service(), username, password)
}

func GetPassword(kind Kind, username string) (string, error) {
	return keyring.Get(kind.service(), username)
}

func DeletePassword(kind Kind, username string) error {
	return keyring.Delete(kind.service(), username)
}

// ResolvePassword prefers an explicitly configured password and falls back to the keyring.
// Accounts without a username need no password.
func ResolvePassword(kind Kind, username, configured string) (string, error) {
	if configured != "" || username == "" {
		return configured, nil
	}

	password, err := GetPassword(kind, username)
	if err != nil {
		return "", fmt.Errorf("[ACCOUNTS::ResolvePassword] no %s password for %s: %w", kind, username, err)
	}
	return password, nil
}
