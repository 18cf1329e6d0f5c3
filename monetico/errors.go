package monetico

import (
	"errors"
	"fmt"
)

// Sentinel errors for the request validation taxonomy. Callers match them
// with errors.Is; the wrapped message carries the offending value.
var (
	ErrInvalidReference             = errors.New("monetico: invalid reference")
	ErrInvalidLanguage              = errors.New("monetico: unsupported language")
	ErrInvalidCurrency              = errors.New("monetico: unsupported currency")
	ErrInvalidDateTime              = errors.New("monetico: invalid date time")
	ErrInvalidEmail                 = errors.New("monetico: invalid email address")
	ErrInvalidURL                   = errors.New("monetico: invalid url")
	ErrInvalidAmount                = errors.New("monetico: invalid amount")
	ErrInvalidThreeDSecureChallenge = errors.New("monetico: invalid 3-D Secure challenge")
	ErrInvalidEptCode               = errors.New("monetico: invalid EPT code")
	ErrInvalidKey                   = errors.New("monetico: invalid security key")
)

func invalidReference(value string) error {
	return fmt.Errorf("reference %q must be 1 to %d characters: %w", value, referenceMaxLength, ErrInvalidReference)
}

func invalidLanguage(value string) error {
	return fmt.Errorf("language %q is not supported: %w", value, ErrInvalidLanguage)
}

func invalidCurrency(value string) error {
	return fmt.Errorf("currency %q is not supported: %w", value, ErrInvalidCurrency)
}

func invalidEmail(value string) error {
	return fmt.Errorf("email %q is not a valid address: %w", value, ErrInvalidEmail)
}

func invalidURL(field, value string) error {
	return fmt.Errorf("%s %q is not an absolute url: %w", field, value, ErrInvalidURL)
}

func invalidThreeDSecureChallenge(value string) error {
	return fmt.Errorf("challenge %q is not in the allowed set: %w", value, ErrInvalidThreeDSecureChallenge)
}
