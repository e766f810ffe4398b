package signing

import (
	"context"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/metrics"
	"github.com/patentvault/go-anchor-wallet/internal/persistence"
	"github.com/rs/zerolog/log"
)

// TransactionSubmitter is the ledger-facing half of the submit leg.
// *ledger.Submitter satisfies it; tests substitute a mock.
type TransactionSubmitter interface {
	Submit(ctx context.Context, signed *ledger.SignedTransaction) (*ledger.Receipt, error)
}

// SubmitResult joins the ledger receipt with the workflow record it settled.
// PatentID and RecordID are empty when no pending step survived the wait for
// the signature, which happens when the validity window lapses between legs.
type SubmitResult struct {
	Receipt  *ledger.Receipt
	Kind     ledger.Kind
	PatentID string
	RecordID string
}

// Service closes the two-call signing protocol: it accepts the signed bytes
// from the second leg, submits them, and settles the pending workflow record
// either way.
type Service struct {
	coordinator *Coordinator
	submitter   TransactionSubmitter
	store       persistence.Store
	metrics     *metrics.Service
	clock       time2.Clock
}

func NewService(coordinator *Coordinator, submitter TransactionSubmitter, store persistence.Store, metrics *metrics.Service, clock time2.Clock) *Service {
	return &Service{
		coordinator: coordinator,
		submitter:   submitter,
		store:       store,
		metrics:     metrics,
		clock:       clock,
	}
}

// SubmitSigned decodes and validates the signed payload, executes it against
// the ledger and reconciles the outcome onto the pending record. The record
// is marked failed on any submission error except a network outage, where the
// true outcome is unknown and the record stays pending for a retry.
func (s *Service) SubmitSigned(ctx context.Context, payload []byte, network ledger.Network) (*SubmitResult, error) {
	signed, step, err := s.coordinator.AcceptSigned(ctx, payload, network)
	if err != nil {
		return nil, err
	}

	if step == nil {
		log.Warn().
			Str("transaction_id", signed.TransactionID).
			Str("network", string(network)).
			Msg("No pending signing step for submitted transaction, proceeding without record reconciliation")
	}

	start := s.clock.Now()
	receipt, submitErr := s.submitter.Submit(ctx, signed)
	s.observe(signed.Kind, start, submitErr)

	if submitErr != nil {
		if step != nil && ledger.KindOf(submitErr) != ledger.ErrorKindNetworkUnavailable {
			if err := s.store.MarkFailed(ctx, step.RecordID, submitErr.Error()); err != nil {
				log.Error().Err(err).Str("record_id", step.RecordID).Msg("Failed to mark transaction record failed")
			}
			s.coordinator.Complete(ctx, signed.TransactionID)
		}
		return nil, submitErr
	}

	result := &SubmitResult{Receipt: receipt, Kind: signed.Kind}
	if step != nil {
		result.PatentID = step.PatentID
		result.RecordID = step.RecordID
		if err := s.store.MarkConfirmed(ctx, step.RecordID, receipt); err != nil {
			// the ledger accepted the transaction; surface the record error
			// but keep the receipt so the caller still sees the outcome
			s.coordinator.Complete(ctx, signed.TransactionID)
			return result, err
		}
	}

	s.coordinator.Complete(ctx, signed.TransactionID)

	log.Info().
		Str("transaction_id", receipt.TransactionID).
		Str("kind", string(signed.Kind)).
		Str("patent_id", result.PatentID).
		Msg("Signed transaction confirmed on ledger")

	return result, nil
}

func (s *Service) observe(kind ledger.Kind, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(ledger.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	s.metrics.ObserveSubmission(string(kind), outcome, s.clock.Now().Sub(start))
}
