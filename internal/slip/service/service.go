// Package service composes the decoder, the remote inquiry client, and the
// validation stages into the gateway's two verification entry points.
// Verification (talking to the remote service) and validation (the local
// trust decision) stay separate, composable steps.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"slipgate/internal/platform/metrics"
	"slipgate/internal/slip/emvqr"
	"slipgate/internal/slip/inquiry"
	"slipgate/internal/slip/models"
	"slipgate/internal/slip/qrdecode"
	"slipgate/internal/slip/replay"
	"slipgate/internal/slip/validate"
)

// Metric outcome labels for verification attempts.
const (
	outcomeOK          = "ok"
	outcomeDecodeError = "decode_error"
	outcomeAPIError    = "api_error"
	outcomeReplayed    = "replayed"
)

// Service is the orchestrator. The replay guard, metrics, and logger are all
// optional; without them the service is a pure composition of its two
// collaborators.
type Service struct {
	inquirer inquiry.Inquirer
	decoder  *qrdecode.Decoder
	guard    *replay.Guard
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithReplayGuard short-circuits repeat payloads before they spend remote
// inquiry quota.
func WithReplayGuard(guard *replay.Guard) Option {
	return func(s *Service) {
		s.guard = guard
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithNow pins the validation clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates the orchestrator over its two required collaborators.
func New(inquirer inquiry.Inquirer, decoder *qrdecode.Decoder, opts ...Option) (*Service, error) {
	if inquirer == nil {
		return nil, fmt.Errorf("inquirer is required")
	}
	if decoder == nil {
		return nil, fmt.Errorf("decoder is required")
	}

	svc := &Service{
		inquirer: inquirer,
		decoder:  decoder,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// VerifyPayload submits an already-decoded payload to the remote service and
// returns its result unmodified.
func (s *Service) VerifyPayload(ctx context.Context, payload string) (*models.VerificationResult, error) {
	if err := s.checkReplay(ctx, payload); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.inquirer.Inquire(ctx, payload)
	s.metrics.ObserveInquiry(time.Since(start))
	if err != nil {
		s.metrics.ObserveVerification(outcomeAPIError)
		return nil, err
	}

	s.metrics.ObserveVerification(outcomeOK)
	return result, nil
}

// VerifyImage decodes the QR payload out of a raw image buffer first; a
// decode failure never reaches the remote service and keeps its decode error
// kind.
func (s *Service) VerifyImage(ctx context.Context, raw []byte) (*models.VerificationResult, error) {
	payload, err := s.decoder.Decode(ctx, raw)
	if err != nil {
		s.metrics.ObserveVerification(outcomeDecodeError)
		return nil, err
	}
	return s.VerifyPayload(ctx, payload)
}

// VerifyImageBase64 is VerifyImage for base64 or data-URL encoded input.
func (s *Service) VerifyImageBase64(ctx context.Context, encoded string) (*models.VerificationResult, error) {
	payload, err := s.decoder.DecodeString(ctx, encoded)
	if err != nil {
		s.metrics.ObserveVerification(outcomeDecodeError)
		return nil, err
	}
	return s.VerifyPayload(ctx, payload)
}

// Validate runs the validation chain and, only when it passes, the
// structural cross-check of the original payload. The first failure from
// either stage is the final outcome. An empty payload skips the structural
// stage.
func (s *Service) Validate(result *models.VerificationResult, payload string, exp validate.Expectation) validate.Outcome {
	outcome := validate.ValidateAt(result, exp, s.now())
	if outcome.Valid && payload != "" {
		outcome = emvqr.CrossValidate(payload, exp.Account, exp.Amount)
	}
	if !outcome.Valid {
		s.metrics.ObserveRejection(string(outcome.Reason))
	}
	return outcome
}

// checkReplay consults the optional local guard. Guard storage failures fail
// open: the guard is a quota optimization and the remote isCached flag still
// catches true replays.
func (s *Service) checkReplay(ctx context.Context, payload string) error {
	if s.guard == nil {
		return nil
	}
	err := s.guard.Check(ctx, payload)
	if err == nil {
		return nil
	}
	if errors.Is(err, replay.ErrReplayed) {
		s.metrics.ObserveVerification(outcomeReplayed)
		return err
	}
	if s.logger != nil {
		s.logger.WarnContext(ctx, "replay guard unavailable, failing open", "error", err)
	}
	return nil
}
