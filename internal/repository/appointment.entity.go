package repository

import (
	"time"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

type AppointmentEntity struct {
	ID          string    `gorm:"primaryKey;column:id;type:uuid"`
	ClinicID    string    `gorm:"column:clinic_id;not null;index"`
	PatientID   string    `gorm:"column:patient_id;not null;index"`
	ScheduledAt time.Time `gorm:"column:scheduled_at;not null;index"`
	Status      string    `gorm:"column:status;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AppointmentEntity) TableName() string {
	return "appointments"
}

func toAppointmentEntity(m *model.Appointment) *AppointmentEntity {
	if m == nil {
		return nil
	}
	return &AppointmentEntity{
		ID:          m.ID,
		ClinicID:    m.ClinicID,
		PatientID:   m.PatientID,
		ScheduledAt: m.ScheduledAt,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}

func toAppointmentModel(e *AppointmentEntity) *model.Appointment {
	if e == nil {
		return nil
	}
	return &model.Appointment{
		ID:          e.ID,
		ClinicID:    e.ClinicID,
		PatientID:   e.PatientID,
		ScheduledAt: e.ScheduledAt,
		Status:      model.AppointmentStatus(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

func toAppointmentModels(entities []*AppointmentEntity) []*model.Appointment {
	if entities == nil {
		return nil
	}
	models := make([]*model.Appointment, len(entities))
	for i, e := range entities {
		models[i] = toAppointmentModel(e)
	}
	return models
}
