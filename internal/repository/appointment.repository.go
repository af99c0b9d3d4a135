package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/pg"
)

type AppointmentRepository struct {
	*pg.DB
}

func NewAppointmentRepository(db *pg.DB) *AppointmentRepository {
	return &AppointmentRepository{db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) (*model.Appointment, error) {
	entity := toAppointmentEntity(a)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if entity.Status == "" {
		entity.Status = string(model.AppointmentScheduled)
	}
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toAppointmentModel(entity), nil
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (*model.Appointment, error) {
	var entity AppointmentEntity
	err := r.Read(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toAppointmentModel(&entity), nil
}

// FindOverdueScheduled returns appointments still in scheduled status whose
// start time is before the cutoff. The sweep computes cutoff = now - grace.
func (r *AppointmentRepository) FindOverdueScheduled(ctx context.Context, cutoff time.Time) ([]*model.Appointment, error) {
	var entities []*AppointmentEntity
	err := r.Read(ctx).
		Where("status = ? AND scheduled_at < ?", model.AppointmentScheduled, cutoff).
		Order("scheduled_at ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toAppointmentModels(entities), nil
}

// FindUpcoming returns reminder candidates: scheduled or confirmed visits
// starting inside (from, to].
func (r *AppointmentRepository) FindUpcoming(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	var entities []*AppointmentEntity
	err := r.Read(ctx).
		Where("status IN ? AND scheduled_at > ? AND scheduled_at <= ?",
			[]string{string(model.AppointmentScheduled), string(model.AppointmentConfirmed)}, from, to).
		Order("scheduled_at ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toAppointmentModels(entities), nil
}

// MarkNoShow transitions scheduled -> no_show. The status predicate makes
// the transition one-way: a second sweep, or a booking-side update racing
// us, leaves the row untouched and we report false.
func (r *AppointmentRepository) MarkNoShow(ctx context.Context, id string) (bool, error) {
	res := r.Write(ctx).
		Model(&AppointmentEntity{}).
		Where("id = ? AND status = ?", id, model.AppointmentScheduled).
		Update("status", model.AppointmentNoShow)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Confirm transitions scheduled -> confirmed, driven by an inbound YES.
func (r *AppointmentRepository) Confirm(ctx context.Context, id string) (bool, error) {
	res := r.Write(ctx).
		Model(&AppointmentEntity{}).
		Where("id = ? AND status = ?", id, model.AppointmentScheduled).
		Update("status", model.AppointmentConfirmed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// NextScheduledForPatient finds the patient's next upcoming visit that can
// still be confirmed.
func (r *AppointmentRepository) NextScheduledForPatient(ctx context.Context, patientID string, after time.Time) (*model.Appointment, error) {
	var entity AppointmentEntity
	err := r.Read(ctx).
		Where("patient_id = ? AND status = ? AND scheduled_at > ?", patientID, model.AppointmentScheduled, after).
		Order("scheduled_at ASC").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toAppointmentModel(&entity), nil
}
