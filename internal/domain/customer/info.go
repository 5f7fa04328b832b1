package customer

import (
	"errors"
	"strings"
)

var (
	ErrNameRequired  = errors.New("customer name is required")
	ErrEmailRequired = errors.New("customer email is required")
	ErrInvalidEmail  = errors.New("invalid customer email")
)

// Info identifies the person an appointment or queue entry belongs to.
// Email doubles as the duplicate-detection key across both flows.
type Info struct {
	Name  string
	Email string
	Phone string
	Notes string
}

func NewInfo(name, email, phone, notes string) (Info, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return Info{}, ErrNameRequired
	}
	if email == "" {
		return Info{}, ErrEmailRequired
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return Info{}, ErrInvalidEmail
	}
	return Info{
		Name:  name,
		Email: email,
		Phone: strings.TrimSpace(phone),
		Notes: strings.TrimSpace(notes),
	}, nil
}
