package repository

import (
	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

type PatientEntity struct {
	ID        string `gorm:"primaryKey;column:id;type:uuid"`
	ClinicID  string `gorm:"column:clinic_id;not null;index"`
	FirstName string `gorm:"column:first_name;not null"`
	LastName  string `gorm:"column:last_name"`
	Phone     string `gorm:"column:phone;not null;index"`
	SMSOptIn  bool   `gorm:"column:sms_opt_in;not null;default:true"`
}

func (PatientEntity) TableName() string {
	return "patients"
}

func toPatientEntity(m *model.Patient) *PatientEntity {
	if m == nil {
		return nil
	}
	return &PatientEntity{
		ID:        m.ID,
		ClinicID:  m.ClinicID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     m.Phone,
		SMSOptIn:  m.SMSOptIn,
	}
}

func toPatientModel(e *PatientEntity) *model.Patient {
	if e == nil {
		return nil
	}
	return &model.Patient{
		ID:        e.ID,
		ClinicID:  e.ClinicID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Phone:     e.Phone,
		SMSOptIn:  e.SMSOptIn,
	}
}
