package core

import (
	"regexp"
	"strings"
)

// ClientInput carries the caller-supplied client fields for create and update.
// Consent only matters at creation; UpdateClient ignores it.
type ClientInput struct {
	Name    string
	Email   *string
	Phone   *string
	Consent bool
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s+\-()]+$`)
)

// Normalize trims the name and drops empty optional fields so they land as
// NULL instead of empty strings.
func (in *ClientInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	if in.Email != nil && strings.TrimSpace(*in.Email) == "" {
		in.Email = nil
	}
	if in.Phone != nil && strings.TrimSpace(*in.Phone) == "" {
		in.Phone = nil
	}
}

// Validate enforces the client field rules. requireConsent is true at
// creation: there is no way to register a client without explicit consent.
func (in *ClientInput) Validate(requireConsent bool) error {
	if in.Name == "" {
		return validationf("client name is required")
	}
	if requireConsent && !in.Consent {
		return validationf("client must explicitly consent to personal data processing")
	}
	if in.Email != nil && !emailPattern.MatchString(*in.Email) {
		return validationf("invalid email format %q", *in.Email)
	}
	if in.Phone != nil && !phonePattern.MatchString(*in.Phone) {
		return validationf("invalid phone format %q", *in.Phone)
	}
	return nil
}
