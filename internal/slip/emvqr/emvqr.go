// Package emvqr re-derives structure from the raw QR payload independently of
// the remote verification result. Cross-checking the tagged fields catches
// tampering that only a structural re-parse can detect.
package emvqr

import "strconv"

// Field is one tag-length-value record from the payload. Some tags nest a
// further TLV sequence inside their value.
type Field struct {
	Tag   string
	Value string
}

// Tags of interest. Tag 30 is the merchant account information template whose
// sub-tag 01 carries the structural account reference; tag 54 carries the
// transaction amount as a decimal string.
const (
	tagMerchantAccount = "30"
	subTagAccountID    = "01"
	tagAmount          = "54"
)

// Parse reads TLV records until the cursor exhausts the payload: a 2-digit
// tag, a 2-digit decimal length, then exactly that many value characters.
// Parsing is total over any string; a truncated or malformed tail simply ends
// the walk and whatever was parsed so far is returned.
func Parse(payload string) []Field {
	var fields []Field
	for i := 0; i+4 <= len(payload); {
		tag := payload[i : i+2]
		length, err := strconv.Atoi(payload[i+2 : i+4])
		if err != nil || length < 0 {
			break
		}
		if i+4+length > len(payload) {
			break
		}
		fields = append(fields, Field{Tag: tag, Value: payload[i+4 : i+4+length]})
		i += 4 + length
	}
	return fields
}

// Find returns the value of the first field with the given tag.
func Find(fields []Field, tag string) (string, bool) {
	for _, f := range fields {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return "", false
}

// accountReference digs the structural account identifier out of the merchant
// account template, re-parsing its value as a nested TLV sequence.
func accountReference(fields []Field) (string, bool) {
	template, ok := Find(fields, tagMerchantAccount)
	if !ok {
		return "", false
	}
	return Find(Parse(template), subTagAccountID)
}
