package core

import "net/mail"

type (
	EmailMessage struct {
		To       []mail.Address
		Cc       []mail.Address
		Subject  string
		BodyStr  string // simple text/plain content
		HTMLBody string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages and reports the first failure
		SendMessages(messages ...*EmailMessage) error
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.BodyStr != "" || m.HTMLBody != "" }

// ParseAddresses parses a list of "Name <addr>" or bare addresses, skipping blanks.
func ParseAddresses(list []string) ([]mail.Address, error) {
	addrs := make([]mail.Address, 0, len(list))
	for _, s := range list {
		if s = CleanString(s); s == "" {
			continue
		}
		addr, err := mail.ParseAddress(s)
		if err != nil {
			return nil, NewValidationError(err, FieldError{Field: "notifyTo", Error: s + " is not a valid email address"})
		}
		addrs = append(addrs, *addr)
	}
	return addrs, nil
}
