package repository

import (
	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

type ClinicEntity struct {
	ID           string `gorm:"primaryKey;column:id;type:uuid"`
	Name         string `gorm:"column:name;not null"`
	SenderNumber string `gorm:"column:sender_number;not null"`
	Timezone     string `gorm:"column:timezone;not null;default:UTC"`
}

func (ClinicEntity) TableName() string {
	return "clinics"
}

func toClinicEntity(m *model.Clinic) *ClinicEntity {
	if m == nil {
		return nil
	}
	return &ClinicEntity{
		ID:           m.ID,
		Name:         m.Name,
		SenderNumber: m.SenderNumber,
		Timezone:     m.Timezone,
	}
}

func toClinicModel(e *ClinicEntity) *model.Clinic {
	if e == nil {
		return nil
	}
	return &model.Clinic{
		ID:           e.ID,
		Name:         e.Name,
		SenderNumber: e.SenderNumber,
		Timezone:     e.Timezone,
	}
}
