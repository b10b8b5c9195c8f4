package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"slipgate/internal/slip/inquiry"
	"slipgate/internal/slip/models"
	"slipgate/internal/slip/qrdecode"
	"slipgate/internal/slip/replay"
	"slipgate/internal/slip/validate"
)

// fakeInquirer records calls and yields a canned result or error.
type fakeInquirer struct {
	result   *models.VerificationResult
	err      error
	calls    int
	payloads []string
}

func (f *fakeInquirer) Inquire(_ context.Context, payload string) (*models.VerificationResult, error) {
	f.calls++
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeSymbols decodes every image to a fixed payload.
type fakeSymbols struct {
	payload string
	err     error
}

func (f *fakeSymbols) DecodeSymbol(context.Context, qrdecode.Image) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.payload, nil
}

type ServiceSuite struct {
	suite.Suite
	now time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
}

func (s *ServiceSuite) newService(inq inquiry.Inquirer, symbols qrdecode.SymbolDecoder, opts ...Option) *Service {
	if symbols == nil {
		symbols = &fakeSymbols{payload: "unused"}
	}
	decoder, err := qrdecode.New(symbols)
	s.Require().NoError(err)

	opts = append(opts, WithNow(func() time.Time { return s.now }))
	svc, err := New(inq, decoder, opts...)
	s.Require().NoError(err)
	return svc
}

func (s *ServiceSuite) goodResult() *models.VerificationResult {
	account := "1234567890"
	res := &models.VerificationResult{Valid: true}
	res.Data.TransDate = s.now.Format("20060102")
	res.Data.TransTime = s.now.Format("15:04:05")
	res.Data.ReceivingBank = "004"
	res.Data.Receiver.Account.Value = &account
	return res
}

func (s *ServiceSuite) TestNew() {
	decoder, err := qrdecode.New(&fakeSymbols{})
	s.Require().NoError(err)

	s.Run("nil inquirer returns error", func() {
		_, err := New(nil, decoder)
		s.Error(err)
	})

	s.Run("nil decoder returns error", func() {
		_, err := New(&fakeInquirer{}, nil)
		s.Error(err)
	})
}

func (s *ServiceSuite) TestVerifyPayload() {
	// The exact payload must reach the remote client exactly once and its
	// result must come back unmodified.
	const payload = "0038000600000101030060217Bf870bf26685f55526203TH9104CF62"

	want := s.goodResult()
	inq := &fakeInquirer{result: want}
	svc := s.newService(inq, nil)

	got, err := svc.VerifyPayload(context.Background(), payload)
	s.Require().NoError(err)
	s.Same(want, got)
	s.Equal(1, inq.calls)
	s.Equal([]string{payload}, inq.payloads)
}

func (s *ServiceSuite) TestVerifyPayloadInquiryError() {
	apiErr := inquiry.NewAPIError(inquiry.CategoryTransport, "inquiry request failed", errors.New("timeout"))
	inq := &fakeInquirer{err: apiErr}
	svc := s.newService(inq, nil)

	_, err := svc.VerifyPayload(context.Background(), "payload")
	s.True(inquiry.IsAPIError(err))
}

func (s *ServiceSuite) TestVerifyImage() {
	raw := make([]byte, 4*4*4)

	s.Run("decoded payload flows to the inquirer", func() {
		inq := &fakeInquirer{result: s.goodResult()}
		svc := s.newService(inq, &fakeSymbols{payload: "000201DECODED"})

		_, err := svc.VerifyImage(context.Background(), raw)
		s.Require().NoError(err)
		s.Equal([]string{"000201DECODED"}, inq.payloads)
	})

	s.Run("decode failure keeps its kind and never reaches the inquirer", func() {
		inq := &fakeInquirer{result: s.goodResult()}
		svc := s.newService(inq, &fakeSymbols{err: qrdecode.ErrSymbolNotFound})

		_, err := svc.VerifyImage(context.Background(), raw)
		s.True(qrdecode.IsDecodeError(err))
		s.Equal(0, inq.calls)
	})

	s.Run("base64 input is normalized before decoding", func() {
		inq := &fakeInquirer{result: s.goodResult()}
		svc := s.newService(inq, &fakeSymbols{payload: "000201DECODED"})

		encoded := base64.StdEncoding.EncodeToString(raw)
		_, err := svc.VerifyImageBase64(context.Background(), encoded)
		s.NoError(err)
		s.Equal(1, inq.calls)
	})
}

func (s *ServiceSuite) TestValidate() {
	svc := s.newService(&fakeInquirer{result: s.goodResult()}, nil)
	exp := validate.Expectation{Account: "1234567890", Bank: "004"}

	s.Run("passing chain without payload skips the structural stage", func() {
		outcome := svc.Validate(s.goodResult(), "", exp)
		s.True(outcome.Valid)
	})

	s.Run("chain failure is final, structural stage never runs", func() {
		res := s.goodResult()
		res.Valid = false
		outcome := svc.Validate(res, "garbage that would fail cross validation", exp)
		s.Equal(validate.ReasonInvalidSlip, outcome.Reason)
	})

	s.Run("structural mismatch fails a slip the chain accepted", func() {
		// Payload whose merchant template carries a different account.
		tampered := "000201" + "3038" + "0016A000000677010112" + "0114" + "99999999999999"
		outcome := svc.Validate(s.goodResult(), tampered, exp)
		s.Equal(validate.ReasonInvalidAccount, outcome.Reason)
	})

	s.Run("structural corroboration passes a matching payload", func() {
		payload := "000201" + "3034" + "0016A000000677010112" + "0110" + "1234567890"
		outcome := svc.Validate(s.goodResult(), payload, exp)
		s.True(outcome.Valid)
	})

	s.Run("amount expectation is checked structurally", func() {
		payload := "000201" + "3034" + "0016A000000677010112" + "0110" + "1234567890" + "5406100.00"
		withAmount := exp
		withAmount.Amount = "100"
		outcome := svc.Validate(s.goodResult(), payload, withAmount)
		s.True(outcome.Valid)

		withAmount.Amount = "250"
		outcome = svc.Validate(s.goodResult(), payload, withAmount)
		s.Equal(validate.ReasonAmountMismatch, outcome.Reason)
	})
}

func (s *ServiceSuite) TestReplayGuard() {
	s.Run("repeat payload is flagged before the remote call", func() {
		guard, err := replay.NewGuard(replay.NewMemory(), time.Hour)
		s.Require().NoError(err)

		inq := &fakeInquirer{result: s.goodResult()}
		svc := s.newService(inq, nil, WithReplayGuard(guard))

		_, err = svc.VerifyPayload(context.Background(), "000201PAYLOAD")
		s.Require().NoError(err)

		_, err = svc.VerifyPayload(context.Background(), "000201PAYLOAD")
		s.ErrorIs(err, replay.ErrReplayed)
		s.Equal(1, inq.calls)
	})

	s.Run("guard storage failure fails open", func() {
		guard, err := replay.NewGuard(brokenStore{}, time.Hour)
		s.Require().NoError(err)

		inq := &fakeInquirer{result: s.goodResult()}
		svc := s.newService(inq, nil, WithReplayGuard(guard))

		_, err = svc.VerifyPayload(context.Background(), "000201PAYLOAD")
		s.NoError(err)
		s.Equal(1, inq.calls)
	})
}

type brokenStore struct{}

func (brokenStore) MarkSeen(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}
