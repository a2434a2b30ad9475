package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"insurance-lead-api/models"
)

// OutcomeKind is the closed taxonomy of provider call results.
type OutcomeKind string

const (
	OutcomeSuccess             OutcomeKind = "success"
	OutcomeProviderRejected    OutcomeKind = "provider_rejected"
	OutcomeAuthFailed          OutcomeKind = "auth_failed"
	OutcomeProviderServerError OutcomeKind = "provider_server_error"
	OutcomeTimeout             OutcomeKind = "timeout"
	OutcomeMalformedResponse   OutcomeKind = "malformed_response"
	OutcomeCredentialConfig    OutcomeKind = "credential_config_error"
)

// ProviderOutcome is the classified result of one provider call.
type ProviderOutcome struct {
	Kind           OutcomeKind
	ProviderStatus int

	// Populated on success only.
	ProviderReferenceID string
	QuoteResults        []models.QuoteResult
	Lead                *models.LeadTransferData

	// Populated on every non-success outcome.
	ErrorMessage string
}

// Success reports whether the outcome is the success case.
func (o *ProviderOutcome) Success() bool {
	return o != nil && o.Kind == OutcomeSuccess
}

const maxErrorBodyLen = 512

// ClassifyQuoteResponse maps a raw quick quote response into the outcome
// taxonomy. A 2xx response whose payload lacks success=true, an id, or a
// non-empty data list is a malformed response, never a success.
func ClassifyQuoteResponse(raw *ProviderResponse) *ProviderOutcome {
	if outcome := classifyStatus(raw); outcome != nil {
		return outcome
	}

	var resp models.QuickQuoteResponse
	if err := json.Unmarshal(raw.Body, &resp); err != nil {
		return &ProviderOutcome{
			Kind:           OutcomeMalformedResponse,
			ProviderStatus: raw.StatusCode,
			ErrorMessage:   fmt.Sprintf("undecodable quote response: %v", err),
		}
	}

	if !resp.Success || resp.ID == "" || len(resp.Data) == 0 {
		return &ProviderOutcome{
			Kind:           OutcomeMalformedResponse,
			ProviderStatus: raw.StatusCode,
			ErrorMessage: fmt.Sprintf("quote response missing success/id/data: %s",
				truncateBody(raw.Body, maxErrorBodyLen)),
		}
	}

	return &ProviderOutcome{
		Kind:                OutcomeSuccess,
		ProviderStatus:      raw.StatusCode,
		ProviderReferenceID: resp.ID,
		QuoteResults:        resp.Data,
	}
}

// ClassifyLeadResponse maps a raw lead transfer response into the outcome
// taxonomy.
func ClassifyLeadResponse(raw *ProviderResponse) *ProviderOutcome {
	if outcome := classifyStatus(raw); outcome != nil {
		return outcome
	}

	var resp models.LeadTransferResponse
	if err := json.Unmarshal(raw.Body, &resp); err != nil {
		return &ProviderOutcome{
			Kind:           OutcomeMalformedResponse,
			ProviderStatus: raw.StatusCode,
			ErrorMessage:   fmt.Sprintf("undecodable lead response: %v", err),
		}
	}

	if !resp.Success || resp.Data.UUID == "" {
		return &ProviderOutcome{
			Kind:           OutcomeMalformedResponse,
			ProviderStatus: raw.StatusCode,
			ErrorMessage: fmt.Sprintf("lead response missing success/uuid: %s",
				truncateBody(raw.Body, maxErrorBodyLen)),
		}
	}

	data := resp.Data
	return &ProviderOutcome{
		Kind:                OutcomeSuccess,
		ProviderStatus:      raw.StatusCode,
		ProviderReferenceID: data.UUID,
		Lead:                &data,
	}
}

// classifyStatus handles the status-code driven failure categories shared by
// both endpoints. It returns nil for 200/201, which the per-endpoint
// classifiers then inspect for a well-formed success payload.
func classifyStatus(raw *ProviderResponse) *ProviderOutcome {
	switch {
	case raw.StatusCode == http.StatusOK || raw.StatusCode == http.StatusCreated:
		return nil
	case raw.StatusCode == http.StatusUnauthorized:
		return &ProviderOutcome{
			Kind:           OutcomeAuthFailed,
			ProviderStatus: raw.StatusCode,
			ErrorMessage:   fmt.Sprintf("provider rejected credentials: %s", truncateBody(raw.Body, maxErrorBodyLen)),
		}
	case raw.StatusCode == http.StatusBadRequest:
		return &ProviderOutcome{
			Kind:           OutcomeProviderRejected,
			ProviderStatus: raw.StatusCode,
			ErrorMessage:   fmt.Sprintf("provider rejected request: %s", truncateBody(raw.Body, maxErrorBodyLen)),
		}
	case raw.StatusCode >= http.StatusInternalServerError:
		return &ProviderOutcome{
			Kind:           OutcomeProviderServerError,
			ProviderStatus: raw.StatusCode,
			ErrorMessage:   fmt.Sprintf("provider server error %d: %s", raw.StatusCode, truncateBody(raw.Body, maxErrorBodyLen)),
		}
	default:
		// Other 2xx/3xx/4xx codes are outside the provider's documented
		// contract; treat them as malformed rather than guessing.
		return &ProviderOutcome{
			Kind:           OutcomeMalformedResponse,
			ProviderStatus: raw.StatusCode,
			ErrorMessage:   fmt.Sprintf("unexpected provider status %d: %s", raw.StatusCode, truncateBody(raw.Body, maxErrorBodyLen)),
		}
	}
}

// ClassifyTransportError maps a transport-level failure (no usable HTTP
// response) into the outcome taxonomy.
func ClassifyTransportError(err error) *ProviderOutcome {
	if isTimeoutError(err) {
		return &ProviderOutcome{
			Kind:         OutcomeTimeout,
			ErrorMessage: fmt.Sprintf("provider call timed out: %v", err),
		}
	}
	return &ProviderOutcome{
		Kind:         OutcomeProviderServerError,
		ErrorMessage: fmt.Sprintf("provider unreachable: %v", err),
	}
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncateBody(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "...(truncated)"
}
