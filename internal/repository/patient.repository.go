package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/pg"
)

type PatientRepository struct {
	*pg.DB
}

func NewPatientRepository(db *pg.DB) *PatientRepository {
	return &PatientRepository{db}
}

func (r *PatientRepository) Create(ctx context.Context, p *model.Patient) (*model.Patient, error) {
	entity := toPatientEntity(p)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toPatientModel(entity), nil
}

func (r *PatientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	var entity PatientEntity
	err := r.Read(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toPatientModel(&entity), nil
}

// GetByPhone resolves the patient an inbound reply belongs to.
func (r *PatientRepository) GetByPhone(ctx context.Context, phone string) (*model.Patient, error) {
	var entity PatientEntity
	err := r.Read(ctx).First(&entity, "phone = ?", phone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toPatientModel(&entity), nil
}

// SetOptInByPhone flips the consent flag for every patient record sharing
// the phone number. STOP/START apply to the number, not a single clinic's
// record.
func (r *PatientRepository) SetOptInByPhone(ctx context.Context, phone string, optIn bool) (int64, error) {
	res := r.Write(ctx).
		Model(&PatientEntity{}).
		Where("phone = ?", phone).
		Update("sms_opt_in", optIn)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
