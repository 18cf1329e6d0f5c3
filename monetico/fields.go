package monetico

import (
	"encoding/base64"
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

// Wire formats of the textual protocol.
const (
	dateTimeFormat = "02/01/2006:15:04:05"
	dateFormat     = "02/01/2006"
)

// Field is one name/value pair of the outgoing payload. All values are
// strings; numbers and dates are rendered per the protocol's text formats.
type Field struct {
	Key   string
	Value string
}

// Fields is the ordered field map handed to the form-rendering layer.
// Order is the processor-documented protocol sequence, which is also the
// seal's canonical concatenation order; it is stable across invocations for
// a given request shape.
type Fields []Field

// Get returns the value for key and whether it is present.
func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// Map converts the field list to a plain map, e.g. for JSON responses.
// Ordering is lost; use the Fields slice itself wherever order matters.
func (f Fields) Map() map[string]string {
	m := make(map[string]string, len(f))
	for _, field := range f {
		m[field.Key] = field.Value
	}
	return m
}

// Values returns the field values in protocol order.
func (f Fields) Values() []string {
	values := make([]string, len(f))
	for i, field := range f {
		values[i] = field.Value
	}
	return values
}

// FieldsToArray renders the request into the flat field list, in the fixed
// protocol order: identity and amount fields, installment schedule, options
// (sorted by key for reproducibility), order context, then return URLs.
// Absent resources contribute no fields at all.
func (r *CaptureRequest) FieldsToArray(eptCode, version, companyCode string) Fields {
	fields := Fields{
		{Key: "TPE", Value: eptCode},
		{Key: "date", Value: r.dateTime.Format(dateTimeFormat)},
		{Key: "montant", Value: r.amount.Format(r.currency)},
		{Key: "reference", Value: r.reference},
		{Key: "texte-libre", Value: r.description},
		{Key: "version", Value: version},
		{Key: "lgue", Value: r.language},
		{Key: "societe", Value: companyCode},
		{Key: "mail", Value: r.email},
	}

	fields = append(fields, r.commitmentFields()...)
	fields = append(fields, r.optionFields()...)

	if context, ok := r.encodeOrderContext(); ok {
		fields = append(fields, Field{Key: "contexte_commande", Value: context})
	}

	fields = append(fields,
		Field{Key: "url_retour_ok", Value: r.successURL},
		Field{Key: "url_retour_err", Value: r.errorURL},
	)

	return fields
}

// commitmentFields renders the installment schedule: nbrech plus
// dateech<i>/montantech<i> pairs, 1-based in input order. A single-payment
// request emits nothing.
func (r *CaptureRequest) commitmentFields() Fields {
	if len(r.commitments) == 0 {
		return nil
	}

	fields := Fields{
		{Key: "nbrech", Value: strconv.Itoa(len(r.commitments))},
	}

	for i, commitment := range r.commitments {
		index := strconv.Itoa(i + 1)
		fields = append(fields,
			Field{Key: "dateech" + index, Value: commitment.Date.Format(dateFormat)},
			Field{Key: "montantech" + index, Value: commitment.Amount.Format(r.currency)},
		)
	}

	return fields
}

// optionFields merges the option map in sorted key order so serialization
// stays reproducible.
func (r *CaptureRequest) optionFields() Fields {
	if len(r.options) == 0 {
		return nil
	}

	keys := make([]string, 0, len(r.options))
	for key := range r.options {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make(Fields, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, Field{Key: key, Value: r.options[key]})
	}

	return fields
}

type orderContext struct {
	Billing      *BillingAddress  `json:"billing,omitempty"`
	Shipping     *ShippingAddress `json:"shipping,omitempty"`
	Client       *Client          `json:"client,omitempty"`
	ShoppingCart *Cart            `json:"shoppingCart,omitempty"`
}

// encodeOrderContext packs the attached resources into the processor's
// base64 JSON envelope. Returns false when no resource is attached.
func (r *CaptureRequest) encodeOrderContext() (string, bool) {
	if r.billingAddress == nil && r.shippingAddress == nil && r.client == nil && r.cart == nil {
		return "", false
	}

	context := orderContext{
		Billing:      r.billingAddress,
		Shipping:     r.shippingAddress,
		Client:       r.client,
		ShoppingCart: r.cart,
	}

	// Resource structs hold only strings and integers, marshaling cannot fail.
	encoded, _ := json.Marshal(context)

	return base64.StdEncoding.EncodeToString(encoded), true
}

// ParseDate parses a protocol DD/MM/YYYY calendar date.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(dateFormat, value)
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	return parsed, nil
}
