package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/pg"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")
)

type ClinicRepository struct {
	*pg.DB
}

func NewClinicRepository(db *pg.DB) *ClinicRepository {
	return &ClinicRepository{db}
}

func (r *ClinicRepository) Create(ctx context.Context, c *model.Clinic) (*model.Clinic, error) {
	entity := toClinicEntity(c)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toClinicModel(entity), nil
}

func (r *ClinicRepository) Get(ctx context.Context, id string) (*model.Clinic, error) {
	var entity ClinicEntity
	err := r.Read(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toClinicModel(&entity), nil
}
