package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"slipgate/internal/slip/models"
)

func strPtr(s string) *string { return &s }

// goodResult returns a result that passes the whole chain at the given clock.
func goodResult(now time.Time) *models.VerificationResult {
	res := &models.VerificationResult{Valid: true}
	res.Data.TransDate = now.Format("20060102")
	res.Data.TransTime = now.Format("15:04:05")
	res.Data.ReceivingBank = "004"
	res.Data.Receiver.Account.Value = strPtr("1234567890")
	return res
}

func goodExpectation() Expectation {
	return Expectation{Account: "1234567890", Bank: "004"}
}

func TestValidateChain(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	t.Run("fully valid slip passes", func(t *testing.T) {
		outcome := ValidateAt(goodResult(now), goodExpectation(), now)
		assert.True(t, outcome.Valid)
		assert.Empty(t, outcome.Reason)
	})

	t.Run("invalid slip rejected first", func(t *testing.T) {
		res := goodResult(now)
		res.Valid = false
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.False(t, outcome.Valid)
		assert.Equal(t, ReasonInvalidSlip, outcome.Reason)
	})

	t.Run("cached result rejected as replay", func(t *testing.T) {
		res := goodResult(now)
		res.IsCached = true
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.Equal(t, ReasonAlreadyUsed, outcome.Reason)
	})

	t.Run("invalid and cached reports invalid slip, not replay", func(t *testing.T) {
		// Chain order is contractual: validity outranks replay.
		res := goodResult(now)
		res.Valid = false
		res.IsCached = true
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.Equal(t, ReasonInvalidSlip, outcome.Reason)
	})

	t.Run("wrong receiver account rejected", func(t *testing.T) {
		res := goodResult(now)
		res.Data.Receiver.Account.Value = strPtr("9999999999")
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.Equal(t, ReasonInvalidAccount, outcome.Reason)
	})

	t.Run("missing receiver account rejected", func(t *testing.T) {
		res := goodResult(now)
		res.Data.Receiver.Account.Value = nil
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.Equal(t, ReasonInvalidAccount, outcome.Reason)
	})

	t.Run("receiver proxy value can corroborate the account", func(t *testing.T) {
		res := goodResult(now)
		res.Data.Receiver.Account.Value = nil
		res.Data.Receiver.Proxy.Value = strPtr("1234567890")
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.True(t, outcome.Valid)
	})

	t.Run("wrong bank rejected", func(t *testing.T) {
		res := goodResult(now)
		res.Data.ReceivingBank = "014"
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.Equal(t, ReasonInvalidBank, outcome.Reason)
	})

	t.Run("account check runs before bank check", func(t *testing.T) {
		res := goodResult(now)
		res.Data.Receiver.Account.Value = strPtr("9999999999")
		res.Data.ReceivingBank = "014"
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.Equal(t, ReasonInvalidAccount, outcome.Reason)
	})
}

func TestFreshness(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	setStamp := func(res *models.VerificationResult, at time.Time) {
		res.Data.TransDate = at.Format("20060102")
		res.Data.TransTime = at.Format("15:04:05")
	}

	t.Run("transaction at exactly now is fresh", func(t *testing.T) {
		res := goodResult(now)
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.True(t, outcome.Valid)
	})

	t.Run("transaction 23 hours old is fresh", func(t *testing.T) {
		res := goodResult(now)
		setStamp(res, now.Add(-23*time.Hour))
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.True(t, outcome.Valid)
	})

	t.Run("transaction 25 hours old is expired", func(t *testing.T) {
		res := goodResult(now)
		setStamp(res, now.Add(-25*time.Hour))
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.Equal(t, ReasonExpired, outcome.Reason)
	})

	t.Run("transaction exactly 24 hours old is expired", func(t *testing.T) {
		// The window is strictly-after, so the boundary itself fails.
		res := goodResult(now)
		setStamp(res, now.Add(-24*time.Hour))
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.Equal(t, ReasonExpired, outcome.Reason)
	})

	t.Run("unparsable date fails closed as expired", func(t *testing.T) {
		res := goodResult(now)
		res.Data.TransDate = "notadate"
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.Equal(t, ReasonExpired, outcome.Reason)
	})

	t.Run("empty date and time fail closed as expired", func(t *testing.T) {
		res := goodResult(now)
		res.Data.TransDate = ""
		res.Data.TransTime = ""
		outcome := ValidateAt(res, goodExpectation(), now)
		assert.Equal(t, ReasonExpired, outcome.Reason)
	})
}
