package repository

import (
	"time"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

type MessageLogEntity struct {
	ID            int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ClinicID      string    `gorm:"column:clinic_id;not null;index"`
	PatientID     string    `gorm:"column:patient_id;not null;index"`
	Phone         string    `gorm:"column:phone;not null"`
	Body          string    `gorm:"column:body;not null"`
	Direction     string    `gorm:"column:direction;not null"`
	Status        string    `gorm:"column:status;not null;index"`
	ProviderID    string    `gorm:"column:provider_id;index"`
	ReminderTag   string    `gorm:"column:reminder_tag;index"`
	AppointmentID *string   `gorm:"column:appointment_id;index"`
	EnrollmentID  *int64    `gorm:"column:enrollment_id;index"`
	ErrorText     string    `gorm:"column:error_text"`
	NeedsReview   bool      `gorm:"column:needs_review;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (MessageLogEntity) TableName() string {
	return "message_logs"
}

func toMessageLogEntity(m *model.MessageLog) *MessageLogEntity {
	if m == nil {
		return nil
	}
	return &MessageLogEntity{
		ID:            m.ID,
		ClinicID:      m.ClinicID,
		PatientID:     m.PatientID,
		Phone:         m.Phone,
		Body:          m.Body,
		Direction:     string(m.Direction),
		Status:        string(m.Status),
		ProviderID:    m.ProviderID,
		ReminderTag:   m.ReminderTag,
		AppointmentID: m.AppointmentID,
		EnrollmentID:  m.EnrollmentID,
		ErrorText:     m.ErrorText,
		NeedsReview:   m.NeedsReview,
		CreatedAt:     m.CreatedAt,
	}
}

func toMessageLogModel(e *MessageLogEntity) *model.MessageLog {
	if e == nil {
		return nil
	}
	return &model.MessageLog{
		ID:            e.ID,
		ClinicID:      e.ClinicID,
		PatientID:     e.PatientID,
		Phone:         e.Phone,
		Body:          e.Body,
		Direction:     model.MessageDirection(e.Direction),
		Status:        model.MessageStatus(e.Status),
		ProviderID:    e.ProviderID,
		ReminderTag:   e.ReminderTag,
		AppointmentID: e.AppointmentID,
		EnrollmentID:  e.EnrollmentID,
		ErrorText:     e.ErrorText,
		NeedsReview:   e.NeedsReview,
		CreatedAt:     e.CreatedAt,
	}
}

func toMessageLogModels(entities []*MessageLogEntity) []*model.MessageLog {
	if entities == nil {
		return nil
	}
	models := make([]*model.MessageLog, len(entities))
	for i, e := range entities {
		models[i] = toMessageLogModel(e)
	}
	return models
}
