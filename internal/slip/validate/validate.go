// Package validate implements the local trust decision over a remote
// verification result. The chain is an explicit ordered list of checks so
// precedence stays a testable contract rather than implicit control flow.
package validate

import (
	"time"

	"slipgate/internal/slip/models"
)

// Reason is the fixed rejection vocabulary. Downstream integrators match on
// these strings, so they must not change.
type Reason string

const (
	ReasonInvalidSlip    Reason = "invalid slip"
	ReasonAlreadyUsed    Reason = "already used"
	ReasonExpired        Reason = "expired"
	ReasonInvalidAccount Reason = "invalid account number"
	ReasonInvalidBank    Reason = "invalid bank"
	ReasonAmountMismatch Reason = "amount mismatch"
)

// Outcome is the result of a validation call. A failed validation is a normal
// value, never an error.
type Outcome struct {
	Valid  bool   `json:"valid"`
	Reason Reason `json:"error,omitempty"`
}

// Pass returns a successful outcome.
func Pass() Outcome {
	return Outcome{Valid: true}
}

// Fail returns a rejection carrying the given reason.
func Fail(reason Reason) Outcome {
	return Outcome{Valid: false, Reason: reason}
}

// Expectation carries what the caller believes about the transfer. Amount is
// optional; an empty string skips the structural amount check.
type Expectation struct {
	Account string
	Bank    string
	Amount  string
}

// maxSlipAge is the freshness window. A slip older than this is rejected even
// if the remote service still vouches for it.
const maxSlipAge = 24 * time.Hour

// Layout of the remote service's transDate plus transTime fields combined.
const transStampLayout = "20060102 15:04:05"

type check func(res *models.VerificationResult, exp Expectation, now time.Time) (Reason, bool)

// chain lists the checks in their contractual order. Evaluation stops at the
// first failure.
var chain = []check{
	checkValid,
	checkReplay,
	checkFreshness,
	checkAccount,
	checkBank,
}

// ValidateAt runs the validation chain against the given clock. Exposed so
// freshness behavior can be pinned in tests.
func ValidateAt(res *models.VerificationResult, exp Expectation, now time.Time) Outcome {
	for _, c := range chain {
		if reason, ok := c(res, exp, now); !ok {
			return Fail(reason)
		}
	}
	return Pass()
}

// Validate runs the chain against the local wall clock. Note this is a
// deliberate trust boundary: the remote service does not enforce slip age
// itself, so freshness is judged by the caller's clock.
func Validate(res *models.VerificationResult, exp Expectation) Outcome {
	return ValidateAt(res, exp, time.Now())
}

func checkValid(res *models.VerificationResult, _ Expectation, _ time.Time) (Reason, bool) {
	if !res.Valid {
		return ReasonInvalidSlip, false
	}
	return "", true
}

func checkReplay(res *models.VerificationResult, _ Expectation, _ time.Time) (Reason, bool) {
	if res.IsCached {
		return ReasonAlreadyUsed, false
	}
	return "", true
}

// checkFreshness combines transDate and transTime into one timestamp in the
// local zone and requires it to be strictly after now-24h. Unparsable fields
// fail closed.
func checkFreshness(res *models.VerificationResult, _ Expectation, now time.Time) (Reason, bool) {
	stamp, err := time.ParseInLocation(transStampLayout, res.Data.TransDate+" "+res.Data.TransTime, now.Location())
	if err != nil {
		return ReasonExpired, false
	}
	if !stamp.After(now.Add(-maxSlipAge)) {
		return ReasonExpired, false
	}
	return "", true
}

func checkAccount(res *models.VerificationResult, exp Expectation, _ time.Time) (Reason, bool) {
	actual, ok := res.ReceiverAccountValue()
	if !ok || !AccountMatch(exp.Account, actual) {
		return ReasonInvalidAccount, false
	}
	return "", true
}

func checkBank(res *models.VerificationResult, exp Expectation, _ time.Time) (Reason, bool) {
	if res.Data.ReceivingBank != exp.Bank {
		return ReasonInvalidBank, false
	}
	return "", true
}
