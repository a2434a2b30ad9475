package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"insurance-lead-api/config"
	"insurance-lead-api/models"

	"github.com/google/uuid"
)

// SubmissionErrorCategory is the caller-visible error taxonomy. Provider and
// transport failures are always recovered into one of these; raw errors
// never leak to handlers.
type SubmissionErrorCategory string

const (
	ErrCategoryValidation          SubmissionErrorCategory = "validation_error"
	ErrCategoryCredentialConfig    SubmissionErrorCategory = "credential_config_error"
	ErrCategoryAuthFailed          SubmissionErrorCategory = "auth_failed"
	ErrCategoryProviderRejected    SubmissionErrorCategory = "provider_rejected"
	ErrCategoryProviderServerError SubmissionErrorCategory = "provider_server_error"
	ErrCategoryTimeout             SubmissionErrorCategory = "timeout"
	ErrCategoryMalformedResponse   SubmissionErrorCategory = "malformed_response"
	ErrCategoryInternalPersistence SubmissionErrorCategory = "internal_persistence_error"
)

// SubmissionError is the classified failure returned to callers.
type SubmissionError struct {
	Category       SubmissionErrorCategory
	Message        string
	LocalRecordID  string
	ProviderStatus int
}

func (e *SubmissionError) Error() string {
	if e.LocalRecordID != "" {
		return fmt.Sprintf("%s: %s (submission %s)", e.Category, e.Message, e.LocalRecordID)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// HTTPStatus maps the category to the status the API surfaces to callers.
// Provider-side faults map to 502 so monitoring can tell our bugs from
// their outages; timeouts map to 504.
func (e *SubmissionError) HTTPStatus() int {
	switch e.Category {
	case ErrCategoryValidation, ErrCategoryProviderRejected:
		return http.StatusBadRequest
	case ErrCategoryAuthFailed:
		return http.StatusUnauthorized
	case ErrCategoryTimeout:
		return http.StatusGatewayTimeout
	case ErrCategoryProviderServerError, ErrCategoryMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// QuoteSubmissionResult is returned to callers on a successful quote.
type QuoteSubmissionResult struct {
	Success             bool                 `json:"success"`
	LocalRecordID       string               `json:"local_record_id"`
	ProviderReferenceID string               `json:"provider_reference_id"`
	Results             []models.QuoteResult `json:"results"`
}

// LeadSubmissionResult is returned to callers on a successful lead transfer.
type LeadSubmissionResult struct {
	Success       bool   `json:"success"`
	LocalRecordID string `json:"local_record_id"`
	ProviderUUID  string `json:"provider_uuid"`
	RedirectURL   string `json:"redirect_url"`
}

// SubmissionPipeline drives the full submission lifecycle: durable pending
// record, provider call, classification, immediate caller response, and
// background reconciliation of the final record state.
type SubmissionPipeline struct {
	store  SubmissionStore
	client *ProviderClient
	cfg    *config.ProviderConfig

	// schedule launches the detached reconciliation task. The default runs
	// it on its own goroutine; tests swap in a synchronous variant.
	schedule func(func())

	reconcileAttempts int
	reconcileBackoff  time.Duration
	reconcileTimeout  time.Duration

	// alert notifies operators about conditions that need intervention.
	alert func(subject, body string)
}

// NewSubmissionPipeline constructs a SubmissionPipeline.
func NewSubmissionPipeline(store SubmissionStore, client *ProviderClient, cfg *config.ProviderConfig) *SubmissionPipeline {
	return &SubmissionPipeline{
		store:             store,
		client:            client,
		cfg:               cfg,
		schedule:          func(task func()) { go task() },
		reconcileAttempts: 3,
		reconcileBackoff:  500 * time.Millisecond,
		reconcileTimeout:  10 * time.Second,
		alert:             sendOpsAlert,
	}
}

// SynchronousReconcile makes the terminal-state write run inline instead of
// on a background goroutine. One-shot CLIs and deterministic tests use this
// to observe the final record state before returning.
func (p *SubmissionPipeline) SynchronousReconcile() {
	p.schedule = func(task func()) { task() }
}

// SubmitQuote runs the quick quote submission. The caller blocks only on
// the pending-record write and the provider round trip; the terminal record
// write happens in the background.
func (p *SubmissionPipeline) SubmitQuote(ctx context.Context, req *models.QuickQuoteRequest) (*QuoteSubmissionResult, error) {
	id := uuid.NewString()

	if req.Source == "" {
		req.Source = p.cfg.SourceName
	}
	if req.ExternalReferenceID == "" {
		req.ExternalReferenceID = id
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &SubmissionError{
			Category: ErrCategoryValidation,
			Message:  fmt.Sprintf("unserializable quote request: %v", err),
		}
	}

	if subErr := p.createPending(ctx, id, models.SubmissionKindQuote, payload); subErr != nil {
		return nil, subErr
	}

	outcome := p.callProvider(ctx, id, p.cfg.QuickQuoteEndpoint, req, ClassifyQuoteResponse)
	p.scheduleReconcile(id, outcome)

	if !outcome.Success() {
		return nil, p.outcomeError(id, outcome)
	}

	return &QuoteSubmissionResult{
		Success:             true,
		LocalRecordID:       id,
		ProviderReferenceID: outcome.ProviderReferenceID,
		Results:             outcome.QuoteResults,
	}, nil
}

// SubmitLead runs the lead transfer submission.
func (p *SubmissionPipeline) SubmitLead(ctx context.Context, req *models.LeadTransferRequest) (*LeadSubmissionResult, error) {
	id := uuid.NewString()

	if req.Source == "" {
		req.Source = p.cfg.SourceName
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &SubmissionError{
			Category: ErrCategoryValidation,
			Message:  fmt.Sprintf("unserializable lead request: %v", err),
		}
	}

	if subErr := p.createPending(ctx, id, models.SubmissionKindLead, payload); subErr != nil {
		return nil, subErr
	}

	outcome := p.callProvider(ctx, id, p.cfg.LeadEndpoint, req, ClassifyLeadResponse)
	p.scheduleReconcile(id, outcome)

	if !outcome.Success() {
		return nil, p.outcomeError(id, outcome)
	}

	return &LeadSubmissionResult{
		Success:       true,
		LocalRecordID: id,
		ProviderUUID:  outcome.Lead.UUID,
		RedirectURL:   outcome.Lead.RedirectURL,
	}, nil
}

// createPending persists the pending record before any provider traffic.
// If this write fails the whole operation aborts: no provider call may
// happen without a durable local trace.
func (p *SubmissionPipeline) createPending(ctx context.Context, id string, kind models.SubmissionKind, payload json.RawMessage) *SubmissionError {
	rec := &models.SubmissionRecord{
		ID:             id,
		Kind:           kind,
		RequestPayload: payload,
		Status:         models.SubmissionStatusPending,
	}
	if err := p.store.Create(ctx, rec); err != nil {
		log.Printf("submission %s: pending record write failed, aborting before provider call: %v", id, err)
		return &SubmissionError{
			Category:      ErrCategoryInternalPersistence,
			Message:       "could not persist submission record",
			LocalRecordID: id,
		}
	}
	return nil
}

// callProvider marks the record submitted, performs the provider call and
// classifies the result. The submitted-transition write is best effort: by
// the time it runs the outbound call is committed conceptually, so a failed
// write is logged, not fatal.
func (p *SubmissionPipeline) callProvider(ctx context.Context, id, endpoint string, payload interface{}, classify func(*ProviderResponse) *ProviderOutcome) *ProviderOutcome {
	if err := p.store.Update(ctx, id, SubmissionUpdate{Status: models.SubmissionStatusSubmitted}); err != nil {
		log.Printf("submission %s: could not mark submitted: %v", id, err)
	}

	if p.client.AuthDegraded() {
		log.Printf("submission %s: calling provider with degraded credential format", id)
	}

	raw, err := p.client.Submit(ctx, endpoint, payload)
	if err != nil {
		if errors.Is(err, ErrNoCredentials) {
			p.alert("Provider credentials not configured",
				fmt.Sprintf("Submission %s was rejected because no provider API token is configured.", id))
			return &ProviderOutcome{
				Kind:         OutcomeCredentialConfig,
				ErrorMessage: "provider credentials not configured",
			}
		}
		outcome := ClassifyTransportError(err)
		log.Printf("submission %s: provider call failed at %s: %s", id, endpoint, outcome.ErrorMessage)
		return outcome
	}

	outcome := classify(raw)
	if !outcome.Success() {
		log.Printf("submission %s: provider returned %s at %s (status %d): %s",
			id, outcome.Kind, endpoint, outcome.ProviderStatus, outcome.ErrorMessage)
	}
	return outcome
}

// outcomeError converts a non-success outcome into the caller-facing error.
func (p *SubmissionPipeline) outcomeError(id string, outcome *ProviderOutcome) *SubmissionError {
	category := ErrCategoryProviderServerError
	switch outcome.Kind {
	case OutcomeProviderRejected:
		category = ErrCategoryProviderRejected
	case OutcomeAuthFailed:
		category = ErrCategoryAuthFailed
	case OutcomeTimeout:
		category = ErrCategoryTimeout
	case OutcomeMalformedResponse:
		category = ErrCategoryMalformedResponse
	case OutcomeCredentialConfig:
		category = ErrCategoryCredentialConfig
	}
	return &SubmissionError{
		Category:       category,
		Message:        outcome.ErrorMessage,
		LocalRecordID:  id,
		ProviderStatus: outcome.ProviderStatus,
	}
}

// scheduleReconcile launches the fire-and-forget terminal-state write. The
// task runs to completion regardless of the caller's context: the record
// must reach a terminal state even if nobody is listening anymore.
func (p *SubmissionPipeline) scheduleReconcile(id string, outcome *ProviderOutcome) {
	update := terminalUpdate(outcome)
	p.schedule(func() { p.reconcile(id, update) })
}

// reconcile writes the terminal state with a small bounded retry. Losing
// this write is an observability gap, not a correctness violation (the
// caller already got the outcome), so after the retries are exhausted it
// logs a critical error and alerts operators instead of failing anything.
func (p *SubmissionPipeline) reconcile(id string, update SubmissionUpdate) {
	var lastErr error
	for attempt := 1; attempt <= p.reconcileAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), p.reconcileTimeout)
		err := p.store.Update(ctx, id, update)
		cancel()
		if err == nil {
			return
		}
		lastErr = err
		log.Printf("submission %s: reconcile attempt %d/%d failed: %v", id, attempt, p.reconcileAttempts, err)
		if attempt < p.reconcileAttempts {
			time.Sleep(p.reconcileBackoff)
		}
	}

	log.Printf("CRITICAL: submission %s never reached terminal state %s: %v", id, update.Status, lastErr)
	p.alert("Submission record stuck without terminal state",
		fmt.Sprintf("Submission %s could not be updated to %s after %d attempts: %v",
			id, update.Status, p.reconcileAttempts, lastErr))
}

// terminalUpdate converts a classified outcome into the final record state.
// providerReferenceId is set if and only if the submission succeeded.
func terminalUpdate(outcome *ProviderOutcome) SubmissionUpdate {
	if outcome.Success() {
		details := marshalResultDetails(outcome)
		ref := outcome.ProviderReferenceID
		return SubmissionUpdate{
			Status:              models.SubmissionStatusSucceeded,
			ProviderReferenceID: &ref,
			ResultDetails:       details,
		}
	}

	msg := outcome.ErrorMessage
	if msg == "" {
		msg = string(outcome.Kind)
	}
	return SubmissionUpdate{
		Status:       models.SubmissionStatusFailed,
		ErrorMessage: &msg,
	}
}

func marshalResultDetails(outcome *ProviderOutcome) json.RawMessage {
	var details interface{}
	if outcome.Lead != nil {
		details = outcome.Lead
	} else {
		details = outcome.QuoteResults
	}
	raw, err := json.Marshal(details)
	if err != nil {
		log.Printf("could not marshal result details for provider reference %s, record will carry none: %v",
			outcome.ProviderReferenceID, err)
		return nil
	}
	return raw
}

func sendOpsAlert(subject, body string) {
	recipients := config.OpsAlertRecipients()
	if len(recipients) == 0 {
		return
	}
	if err := config.SendMail(recipients, subject, "<p>"+body+"</p>"); err != nil {
		log.Printf("Warning: failed to send ops alert %q: %v", subject, err)
	}
}
