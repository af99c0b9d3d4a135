package repository

import (
	"time"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

type EnrollmentEntity struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ClinicID       string    `gorm:"column:clinic_id;not null;index"`
	PatientID      string    `gorm:"column:patient_id;not null;index"`
	AppointmentID  string    `gorm:"column:appointment_id;not null;index"`
	Campaign       string    `gorm:"column:campaign;not null;index"`
	Status         string    `gorm:"column:status;not null;index"`
	CurrentStep    int       `gorm:"column:current_step;not null"`
	NextMessageDue time.Time `gorm:"column:next_message_due;not null;index"`
	PatientName    string    `gorm:"column:patient_name"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (EnrollmentEntity) TableName() string {
	return "campaign_enrollments"
}

func toEnrollmentEntity(m *model.CampaignEnrollment) *EnrollmentEntity {
	if m == nil {
		return nil
	}
	return &EnrollmentEntity{
		ID:             m.ID,
		ClinicID:       m.ClinicID,
		PatientID:      m.PatientID,
		AppointmentID:  m.AppointmentID,
		Campaign:       m.Campaign,
		Status:         string(m.Status),
		CurrentStep:    m.CurrentStep,
		NextMessageDue: m.NextMessageDue,
		PatientName:    m.PatientName,
		CreatedAt:      m.CreatedAt,
	}
}

func toEnrollmentModel(e *EnrollmentEntity) *model.CampaignEnrollment {
	if e == nil {
		return nil
	}
	return &model.CampaignEnrollment{
		ID:             e.ID,
		ClinicID:       e.ClinicID,
		PatientID:      e.PatientID,
		AppointmentID:  e.AppointmentID,
		Campaign:       e.Campaign,
		Status:         model.EnrollmentStatus(e.Status),
		CurrentStep:    e.CurrentStep,
		NextMessageDue: e.NextMessageDue,
		PatientName:    e.PatientName,
		CreatedAt:      e.CreatedAt,
	}
}

func toEnrollmentModels(entities []*EnrollmentEntity) []*model.CampaignEnrollment {
	if entities == nil {
		return nil
	}
	models := make([]*model.CampaignEnrollment, len(entities))
	for i, e := range entities {
		models[i] = toEnrollmentModel(e)
	}
	return models
}
