package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/pg"
)

// ErrStaleAdvance is returned when an enrollment update matched no row:
// either another invocation advanced it first or it is already completed.
var ErrStaleAdvance = errors.New("enrollment advance matched no row")

type EnrollmentRepository struct {
	*pg.DB
}

func NewEnrollmentRepository(db *pg.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db}
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *model.CampaignEnrollment) (*model.CampaignEnrollment, error) {
	entity := toEnrollmentEntity(e)
	if entity.Campaign == "" {
		entity.Campaign = model.CampaignNoShowRecovery
	}
	if entity.Status == "" {
		entity.Status = string(model.EnrollmentActive)
	}
	if entity.CurrentStep == 0 {
		entity.CurrentStep = 1
	}
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toEnrollmentModel(entity), nil
}

func (r *EnrollmentRepository) Get(ctx context.Context, id int64) (*model.CampaignEnrollment, error) {
	var entity EnrollmentEntity
	err := r.Read(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toEnrollmentModel(&entity), nil
}

// FindDue returns active enrollments whose next message has come due.
func (r *EnrollmentRepository) FindDue(ctx context.Context, now time.Time) ([]*model.CampaignEnrollment, error) {
	var entities []*EnrollmentEntity
	err := r.Read(ctx).
		Where("status = ? AND next_message_due <= ?", model.EnrollmentActive, now).
		Order("next_message_due ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toEnrollmentModels(entities), nil
}

// FindActiveByAppointment returns the active recovery enrollment tied to
// the missed appointment, if any.
func (r *EnrollmentRepository) FindActiveByAppointment(ctx context.Context, appointmentID string) (*model.CampaignEnrollment, error) {
	var entity EnrollmentEntity
	err := r.Read(ctx).
		Where("appointment_id = ? AND campaign = ? AND status = ?",
			appointmentID, model.CampaignNoShowRecovery, model.EnrollmentActive).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toEnrollmentModel(&entity), nil
}

// Advance moves an active enrollment from fromStep to fromStep+1. The step
// predicate keeps progress strictly monotonic: a concurrent invocation that
// already advanced the row makes this a no-op and we surface ErrStaleAdvance.
func (r *EnrollmentRepository) Advance(ctx context.Context, id int64, fromStep int, nextDue time.Time) error {
	res := r.Write(ctx).
		Model(&EnrollmentEntity{}).
		Where("id = ? AND status = ? AND current_step = ?", id, model.EnrollmentActive, fromStep).
		Updates(map[string]interface{}{
			"current_step":     fromStep + 1,
			"next_message_due": nextDue,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleAdvance
	}
	return nil
}

// Complete finishes the sequence after the final step's send. The sentinel
// due time keeps the row out of FindDue without a nullable column.
func (r *EnrollmentRepository) Complete(ctx context.Context, id int64, fromStep int, sentinel time.Time) error {
	res := r.Write(ctx).
		Model(&EnrollmentEntity{}).
		Where("id = ? AND status = ? AND current_step = ?", id, model.EnrollmentActive, fromStep).
		Updates(map[string]interface{}{
			"status":           string(model.EnrollmentCompleted),
			"next_message_due": sentinel,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleAdvance
	}
	return nil
}
