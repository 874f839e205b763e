package repository

import (
	"context"
	"studyplan_backend/internal/model"

	"gorm.io/gorm"
)

type PersonaRepository struct {
	DB *gorm.DB
}

func NewPersonaRepository(db *gorm.DB) *PersonaRepository {
	return &PersonaRepository{DB: db}
}

func (r *PersonaRepository) ByUserID(ctx context.Context, userID uint) (*model.Persona, error) {
	var persona model.Persona
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&persona).Error
	if err != nil {
		return nil, err
	}
	return &persona, nil
}

func (r *PersonaRepository) Create(persona *model.Persona) error {
	return r.DB.Create(persona).Error
}
