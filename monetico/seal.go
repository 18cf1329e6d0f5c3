package monetico

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Seal payload: field values joined with the literal separator, in protocol
// order. Keys are not part of the signed payload.
const sealSeparator = "*"

// GenerateSeal computes the request seal: HMAC-SHA1 with the derived usable
// key over the canonical value concatenation, rendered as lowercase hex.
// It is a pure function of (key, field values); an empty field list seals
// the empty payload, the processor is the final validator of completeness.
func GenerateSeal(usableKey []byte, fields Fields) string {
	mac := hmac.New(sha1.New, usableKey)
	mac.Write([]byte(strings.Join(fields.Values(), sealSeparator)))
	return hex.EncodeToString(mac.Sum(nil))
}

// GenerateFields appends the seal to the serialized payload under the MAC
// key, producing the complete field map for form submission.
func GenerateFields(seal string, fields Fields) Fields {
	out := make(Fields, 0, len(fields)+1)
	out = append(out, fields...)
	out = append(out, Field{Key: MACField, Value: seal})
	return out
}
