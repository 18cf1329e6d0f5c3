package monetico

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// Payment page endpoints (hosted by the processor)
	mainRequestURL = "https://p.monetico-services.com"
	paymentURI     = "paiement.cgi"

	// InterfaceVersion is the processor protocol version spoken by this package.
	InterfaceVersion = "3.0"

	// MACField carries the seal in the outgoing field map.
	MACField = "MAC"

	eptCodeLength      = 7
	securityKeyLength  = 40
	referenceMaxLength = 12

	// The processor's published key derivation constant, XORed against the
	// final byte of the hex-decoded security key. Pinned byte for byte: any
	// deviation silently invalidates every seal.
	usableKeyXORMask = 0x00
)

// Monetico holds the merchant context shared by every capture request:
// the EPT (merchant site) code, the company code and the derived signing key.
type Monetico struct {
	eptCode     string
	companyCode string
	usableKey   []byte
}

// New validates the merchant credentials and derives the usable signing key.
// The EPT code is exactly 7 characters and the security key is provisioned
// as a 40-character hex string.
func New(eptCode, securityKey, companyCode string) (*Monetico, error) {
	if len(eptCode) != eptCodeLength {
		return nil, fmt.Errorf("EPT code %q must be %d characters: %w", eptCode, eptCodeLength, ErrInvalidEptCode)
	}

	if len(securityKey) != securityKeyLength {
		return nil, fmt.Errorf("security key must be %d hex characters: %w", securityKeyLength, ErrInvalidKey)
	}

	key, err := UsableKey(securityKey)
	if err != nil {
		return nil, err
	}

	return &Monetico{
		eptCode:     eptCode,
		companyCode: companyCode,
		usableKey:   key,
	}, nil
}

// UsableKey derives the raw HMAC key from the hex-encoded merchant secret:
// hex-decode, then XOR the final byte with the processor's derivation
// constant. The effective signing key is distinct from the provisioned one.
func UsableKey(securityKey string) ([]byte, error) {
	if securityKey == "" {
		return nil, fmt.Errorf("security key is empty: %w", ErrInvalidKey)
	}

	key, err := hex.DecodeString(securityKey)
	if err != nil {
		return nil, fmt.Errorf("security key is not valid hex: %w", ErrInvalidKey)
	}

	key[len(key)-1] ^= usableKeyXORMask

	return key, nil
}

// PaymentURL returns the hosted payment page endpoint. The test environment
// differs from production only by a /test/ path segment.
func PaymentURL(testMode bool) string {
	if testMode {
		return mainRequestURL + "/test/" + paymentURI
	}
	return mainRequestURL + "/" + paymentURI
}

// PaymentFields serializes the request with this merchant context, seals it
// and returns the complete field map ready for form submission.
func (m *Monetico) PaymentFields(request *CaptureRequest) Fields {
	fields := request.FieldsToArray(m.eptCode, InterfaceVersion, m.companyCode)
	seal := GenerateSeal(m.usableKey, fields)
	return GenerateFields(seal, fields)
}

// NewReference generates a merchant reference within the processor's
// 12-character limit. References are merchant-chosen and opaque; this is a
// convenience for callers that have no order numbering of their own.
func NewReference() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return raw[:referenceMaxLength]
}
