package repository

import (
	"go-pantry-api/internal/model"

	"gorm.io/gorm"
)

type LocationRepository interface {
	FindAll() ([]model.Location, error)
	SeedDefaults() error
}

type locationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db}
}

func (r *locationRepo) FindAll() ([]model.Location, error) {
	var locations []model.Location
	err := r.db.Order("name ASC").Find(&locations).Error
	return locations, err
}

// SeedDefaults creates a starter set of storage locations on an empty table.
func (r *locationRepo) SeedDefaults() error {
	var count int64
	if err := r.db.Model(&model.Location{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := []model.Location{
		{Name: "Pantry"},
		{Name: "Fridge"},
		{Name: "Freezer"},
	}
	return r.db.Create(&defaults).Error
}
