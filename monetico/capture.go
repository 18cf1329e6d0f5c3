package monetico

import (
	"net/mail"
	"net/url"
	"strings"
	"time"
)

// Supported language codes. Exact, case-sensitive match is required.
var languages = map[string]struct{}{
	"CS": {}, "DE": {}, "EN": {}, "ES": {}, "FR": {}, "HU": {},
	"IT": {}, "JA": {}, "NL": {}, "PL": {}, "PT": {}, "RU": {},
	"SK": {}, "SV": {},
}

// Supported ISO 4217 currency codes.
var currencies = map[string]struct{}{
	"AUD": {}, "CAD": {}, "CHF": {}, "DKK": {}, "EUR": {},
	"GBP": {}, "JPY": {}, "NOK": {}, "SEK": {}, "USD": {},
}

// Payment-way tokens the processor accepts for desactivemoyenpaiement.
// Unknown tokens are filtered out silently so the processor can extend the
// list without a library update.
var paymentWays = map[string]struct{}{
	"1euro": {}, "3xcb": {}, "4xcb": {}, "audiotel": {}, "cofinoga": {},
	"sofinco": {}, "fivory": {}, "paypal": {}, "lyfpay": {},
}

// 3-D Secure challenge modes accepted by the processor.
var threeDSecureChallenges = map[string]struct{}{
	"no_preference":                                {},
	"challenge_preferred":                          {},
	"challenge_mandated":                           {},
	"no_challenge_requested":                       {},
	"no_challenge_requested_strong_authentication": {},
	"no_challenge_requested_trusted_third_party":   {},
	"no_challenge_requested_risk_analysis":         {},
}

// Reserved option keys written by the typed setters. The options map is a
// closed vocabulary; nothing else ever writes into it.
const (
	optionCardAlias             = "aliascb"
	optionForceCard             = "forcesaisiecb"
	optionDisable3DS            = "3dsdebrayable"
	optionSignLabel             = "libelleMonetique"
	optionDisabledPaymentWays   = "desactivemoyenpaiement"
	optionThreeDSecureChallenge = "ThreeDSecureChallenge"
)

// CaptureParams carries the required fields of a payment request.
type CaptureParams struct {
	Reference   string
	Description string
	Language    string
	Email       string
	Amount      Money
	Currency    string
	DateTime    time.Time
	SuccessURL  string
	ErrorURL    string
}

// CaptureRequest is one outbound hosted-payment-page request. It is
// validated at construction, mutated only through typed setters, and read
// by serialization and sealing. A single instance is not safe for
// concurrent mutation.
type CaptureRequest struct {
	reference   string
	description string
	language    string
	email       string
	amount      Money
	currency    string
	dateTime    time.Time
	successURL  string
	errorURL    string

	options     map[string]string
	commitments []Commitment

	billingAddress  *BillingAddress
	shippingAddress *ShippingAddress
	client          *Client
	cart            *Cart
}

// NewCaptureRequest validates params and the optional installment schedule.
// The returned request is never observably invalid.
func NewCaptureRequest(params CaptureParams, commitments ...Commitment) (*CaptureRequest, error) {
	if l := len(params.Reference); l < 1 || l > referenceMaxLength {
		return nil, invalidReference(params.Reference)
	}

	if _, ok := languages[params.Language]; !ok {
		return nil, invalidLanguage(params.Language)
	}

	if _, ok := currencies[params.Currency]; !ok {
		return nil, invalidCurrency(params.Currency)
	}

	if params.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	if params.DateTime.IsZero() {
		return nil, ErrInvalidDateTime
	}

	if err := validateEmail(params.Email); err != nil {
		return nil, err
	}

	if err := validateAbsoluteURL("success url", params.SuccessURL); err != nil {
		return nil, err
	}
	if err := validateAbsoluteURL("error url", params.ErrorURL); err != nil {
		return nil, err
	}

	for _, commitment := range commitments {
		if commitment.Date.IsZero() {
			return nil, ErrInvalidDateTime
		}
		if commitment.Amount.IsNegative() {
			return nil, ErrInvalidAmount
		}
	}

	return &CaptureRequest{
		reference:   params.Reference,
		description: params.Description,
		language:    params.Language,
		email:       params.Email,
		amount:      params.Amount,
		currency:    params.Currency,
		dateTime:    params.DateTime,
		successURL:  params.SuccessURL,
		errorURL:    params.ErrorURL,
		options:     make(map[string]string),
		commitments: commitments,
	}, nil
}

func validateEmail(address string) error {
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return invalidEmail(address)
	}
	return nil
}

func validateAbsoluteURL(field, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return invalidURL(field, raw)
	}
	return nil
}

// SetCardAlias asks the processor to store the card under the given alias
// for later one-click payments.
func (r *CaptureRequest) SetCardAlias(alias string) {
	r.options[optionCardAlias] = alias
}

// SetForceCard forces fresh card entry even when an alias is known.
func (r *CaptureRequest) SetForceCard(force bool) {
	r.options[optionForceCard] = boolOption(force)
}

// SetDisable3DS marks 3-D Secure as disengageable for this request.
func (r *CaptureRequest) SetDisable3DS(disable bool) {
	r.options[optionDisable3DS] = boolOption(disable)
}

// SetSignLabel sets the custom label shown on the payment page.
func (r *CaptureRequest) SetSignLabel(label string) {
	r.options[optionSignLabel] = label
}

// SetDisabledPaymentWays disables a subset of the processor's payment ways.
// Unknown tokens are dropped without error, input order is preserved.
func (r *CaptureRequest) SetDisabledPaymentWays(ways []string) {
	kept := make([]string, 0, len(ways))
	for _, way := range ways {
		if _, ok := paymentWays[way]; ok {
			kept = append(kept, way)
		}
	}
	r.options[optionDisabledPaymentWays] = strings.Join(kept, ",")
}

// SetThreeDSecureChallenge instructs the processor whether to force
// cardholder authentication. The mode must be one of the enumerated set.
func (r *CaptureRequest) SetThreeDSecureChallenge(challenge string) error {
	if _, ok := threeDSecureChallenges[challenge]; !ok {
		return invalidThreeDSecureChallenge(challenge)
	}
	r.options[optionThreeDSecureChallenge] = challenge
	return nil
}

// SetBillingAddress attaches the billing address resource.
func (r *CaptureRequest) SetBillingAddress(address BillingAddress) {
	r.billingAddress = &address
}

// SetShippingAddress attaches the shipping address resource.
func (r *CaptureRequest) SetShippingAddress(address ShippingAddress) {
	r.shippingAddress = &address
}

// SetClient attaches the client resource.
func (r *CaptureRequest) SetClient(client Client) {
	r.client = &client
}

// SetCart attaches the shopping cart resource.
func (r *CaptureRequest) SetCart(cart Cart) {
	r.cart = &cart
}

// Reference returns the merchant order reference.
func (r *CaptureRequest) Reference() string {
	return r.reference
}

// Options returns a copy of the option map for inspection.
func (r *CaptureRequest) Options() map[string]string {
	options := make(map[string]string, len(r.options))
	for key, value := range r.options {
		options[key] = value
	}
	return options
}

// Commitments returns the installment schedule, empty for single payments.
func (r *CaptureRequest) Commitments() []Commitment {
	return r.commitments
}

func boolOption(value bool) string {
	if value {
		return "1"
	}
	return "0"
}
