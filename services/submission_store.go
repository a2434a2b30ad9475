package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"insurance-lead-api/config"
	"insurance-lead-api/models"

	"gorm.io/gorm"
)

// ErrInvalidTransition is returned when an update would move a submission
// record backwards (or out of a terminal state).
var ErrInvalidTransition = errors.New("invalid submission status transition")

// SubmissionUpdate is the partial update applied on a status transition.
// RequestPayload is deliberately absent: it is immutable after create.
type SubmissionUpdate struct {
	Status              models.SubmissionStatus
	ProviderReferenceID *string
	ResultDetails       json.RawMessage
	ErrorMessage        *string
}

// SubmissionStore persists submission records. The pipeline depends on this
// interface; the gorm implementation below is the production store and tests
// inject in-memory fakes.
type SubmissionStore interface {
	Create(ctx context.Context, rec *models.SubmissionRecord) error
	Update(ctx context.Context, id string, update SubmissionUpdate) error
	Get(ctx context.Context, id string) (*models.SubmissionRecord, error)
	List(ctx context.Context, offset, limit int) ([]models.SubmissionRecord, int64, error)
}

// GormSubmissionStore stores submission records in MySQL via gorm.
type GormSubmissionStore struct {
	db *gorm.DB
}

// NewGormSubmissionStore constructs a GormSubmissionStore. A nil db falls
// back to the shared config.DB connection.
func NewGormSubmissionStore(db *gorm.DB) *GormSubmissionStore {
	if db == nil {
		db = config.DB
	}
	return &GormSubmissionStore{db: db}
}

func (s *GormSubmissionStore) Create(ctx context.Context, rec *models.SubmissionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("submission record requires an id")
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("create submission record: %w", err)
	}
	return nil
}

// Update applies a status transition. The WHERE clause only matches records
// whose current status may legally move to the requested one, so a stale or
// duplicate write can never rewind a record.
func (s *GormSubmissionStore) Update(ctx context.Context, id string, update SubmissionUpdate) error {
	values := map[string]interface{}{
		"status": update.Status,
	}
	if update.ProviderReferenceID != nil {
		values["provider_reference_id"] = *update.ProviderReferenceID
	}
	if update.ResultDetails != nil {
		values["result_details"] = []byte(update.ResultDetails)
	}
	if update.ErrorMessage != nil {
		values["error_message"] = *update.ErrorMessage
	}

	res := s.db.WithContext(ctx).
		Model(&models.SubmissionRecord{}).
		Where("id = ? AND status IN ?", id, transitionSources(update.Status)).
		Updates(values)
	if res.Error != nil {
		return fmt.Errorf("update submission record %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).
			Model(&models.SubmissionRecord{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return fmt.Errorf("update submission record %s: %w", id, err)
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrInvalidTransition
	}
	return nil
}

func (s *GormSubmissionStore) Get(ctx context.Context, id string) (*models.SubmissionRecord, error) {
	var rec models.SubmissionRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormSubmissionStore) List(ctx context.Context, offset, limit int) ([]models.SubmissionRecord, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.SubmissionRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []models.SubmissionRecord
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// transitionSources lists the statuses allowed to move into target.
func transitionSources(target models.SubmissionStatus) []models.SubmissionStatus {
	switch target {
	case models.SubmissionStatusSubmitted:
		return []models.SubmissionStatus{models.SubmissionStatusPending}
	case models.SubmissionStatusSucceeded, models.SubmissionStatusFailed:
		return []models.SubmissionStatus{models.SubmissionStatusPending, models.SubmissionStatusSubmitted}
	default:
		return nil
	}
}
