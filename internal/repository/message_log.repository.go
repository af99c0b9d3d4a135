package repository

import (
	"context"
	"time"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/pg"
)

type MessageLogRepository struct {
	*pg.DB
}

func NewMessageLogRepository(db *pg.DB) *MessageLogRepository {
	return &MessageLogRepository{db}
}

func (r *MessageLogRepository) Create(ctx context.Context, m *model.MessageLog) (*model.MessageLog, error) {
	entity := toMessageLogEntity(m)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toMessageLogModel(entity), nil
}

// ExistsReminder reports whether a reminder tagged with this band already
// went out for the appointment. Failed rows are excluded so the next cron
// tick retries them.
func (r *MessageLogRepository) ExistsReminder(ctx context.Context, appointmentID, tag string) (bool, error) {
	var count int64
	err := r.Read(ctx).
		Model(&MessageLogEntity{}).
		Where("appointment_id = ? AND reminder_tag = ? AND status <> ?",
			appointmentID, tag, model.MessageStatusFailed).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsRecoveryStep is the idempotency check for a recovery-sequence step.
func (r *MessageLogRepository) ExistsRecoveryStep(ctx context.Context, enrollmentID int64, step int) (bool, error) {
	var count int64
	err := r.Read(ctx).
		Model(&MessageLogEntity{}).
		Where("enrollment_id = ? AND reminder_tag = ? AND status <> ?",
			enrollmentID, model.RecoveryStepTag(step), model.MessageStatusFailed).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatusByProviderID syncs a delivery callback onto the log row.
func (r *MessageLogRepository) UpdateStatusByProviderID(ctx context.Context, providerID string, status model.MessageStatus) (int64, error) {
	res := r.Write(ctx).
		Model(&MessageLogEntity{}).
		Where("provider_id = ?", providerID).
		Update("status", status)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// CountSentSince supports the HEAD health probe.
func (r *MessageLogRepository) CountSentSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.Read(ctx).
		Model(&MessageLogEntity{}).
		Where("direction = ? AND created_at >= ?", model.DirectionOutbound, since).
		Count(&count).Error
	return count, err
}

// ListNeedsReview returns inbound messages no keyword matched, oldest first.
func (r *MessageLogRepository) ListNeedsReview(ctx context.Context, limit int) ([]*model.MessageLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var entities []*MessageLogEntity
	err := r.Read(ctx).
		Where("needs_review = ?", true).
		Order("created_at ASC").
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toMessageLogModels(entities), nil
}

// ListForAppointment is used by tests and the review tooling.
func (r *MessageLogRepository) ListForAppointment(ctx context.Context, appointmentID string) ([]*model.MessageLog, error) {
	var entities []*MessageLogEntity
	err := r.Read(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toMessageLogModels(entities), nil
}
