package emvqr

import (
	"github.com/shopspring/decimal"

	"slipgate/internal/slip/validate"
)

// CrossValidate corroborates the caller's expectations against the payload's
// own tagged fields. The account reference from the merchant template must
// fuzzy-match expectedAccount; when expectedAmount is non-empty, tag 54 must
// be present and numerically equal to it ("100" and "100.00" are equal). The
// caller runs the main validation chain first and only cross-validates a slip
// that already passed it.
func CrossValidate(payload, expectedAccount, expectedAmount string) validate.Outcome {
	fields := Parse(payload)

	account, ok := accountReference(fields)
	if !ok || !validate.AccountMatch(expectedAccount, account) {
		return validate.Fail(validate.ReasonInvalidAccount)
	}

	if expectedAmount != "" {
		raw, ok := Find(fields, tagAmount)
		if !ok {
			return validate.Fail(validate.ReasonAmountMismatch)
		}
		want, err := decimal.NewFromString(expectedAmount)
		if err != nil {
			return validate.Fail(validate.ReasonAmountMismatch)
		}
		got, err := decimal.NewFromString(raw)
		if err != nil || !want.Equal(got) {
			return validate.Fail(validate.ReasonAmountMismatch)
		}
	}

	return validate.Pass()
}
