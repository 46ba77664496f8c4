package types

import (
	"errors"
	"regexp"
	"strings"
)

// Mail is the message record exchanged between the client and the backend.
type Mail struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Profile is the user shown on the profile page.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

var (
	ErrEmptySubject     = errors.New("Subject cannot be empty")
	ErrInvalidRecipient = errors.New("Recipient doesn't appear to be a valid email address")
)

var recipientPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NewDraft returns an empty draft sent from sender.
func NewDraft(sender string) Mail {
	return Mail{Sender: sender}
}

// ValidRecipient reports whether addr looks like local@domain.tld.
func ValidRecipient(addr string) bool {
	return recipientPattern.MatchString(addr)
}

// ValidateDraft checks the subject first and then the recipient.
// Both must pass before a draft is submitted.
func ValidateDraft(m Mail) error {
	if strings.TrimSpace(m.Subject) == "" {
		return ErrEmptySubject
	}
	if !ValidRecipient(m.Recipient) {
		return ErrInvalidRecipient
	}
	return nil
}
