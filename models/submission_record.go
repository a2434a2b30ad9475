package models

import (
	"encoding/json"
	"time"
)

// SubmissionKind identifies which provider operation a submission targets.
type SubmissionKind string

const (
	SubmissionKindQuote SubmissionKind = "quote"
	SubmissionKindLead  SubmissionKind = "lead"
)

// SubmissionStatus is the lifecycle state of a submission record.
// Transitions only move forward: pending -> submitted -> succeeded/failed.
type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusSucceeded SubmissionStatus = "succeeded"
	SubmissionStatusFailed    SubmissionStatus = "failed"
)

var submissionStatusRank = map[SubmissionStatus]int{
	SubmissionStatusPending:   0,
	SubmissionStatusSubmitted: 1,
	SubmissionStatusSucceeded: 2,
	SubmissionStatusFailed:    2,
}

// Terminal reports whether the status admits no further transitions.
func (s SubmissionStatus) Terminal() bool {
	return s == SubmissionStatusSucceeded || s == SubmissionStatusFailed
}

// CanTransitionTo reports whether moving from s to next is a forward
// transition. Skipping submitted is allowed; reverting never is.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	if s.Terminal() {
		return false
	}
	from, ok := submissionStatusRank[s]
	if !ok {
		return false
	}
	to, ok := submissionStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// SubmissionRecord is the durable record of one provider call attempt.
// Every call gets its own record with a fresh id; retried calls are new
// records, never updates of an old one. RequestPayload holds the exact
// outbound payload for audit and replay and is never mutated after create.
type SubmissionRecord struct {
	ID                  string           `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	Kind                SubmissionKind   `gorm:"column:kind;type:varchar(16);not null" json:"kind"`
	RequestPayload      json.RawMessage  `gorm:"column:request_payload;type:json;not null" json:"request_payload"`
	Status              SubmissionStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	ProviderReferenceID *string          `gorm:"column:provider_reference_id;type:varchar(100)" json:"provider_reference_id,omitempty"`
	ResultDetails       json.RawMessage  `gorm:"column:result_details;type:json" json:"result_details,omitempty"`
	ErrorMessage        *string          `gorm:"column:error_message;type:text" json:"error_message,omitempty"`
	CreatedAt           time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SubmissionRecord) TableName() string { return "submission_records" }
