package repository

import (
	"errors"

	"go-pantry-api/internal/model"

	"gorm.io/gorm"
)

// ErrNotFound is the storage-agnostic "record does not exist" signal.
// Handlers match this instead of the driver's error taxonomy.
var ErrNotFound = errors.New("record not found")

type ItemRepository interface {
	FindAll() ([]model.Item, error)
	FindByID(id uint) (*model.Item, error)
	Create(item *model.Item) (*model.Item, error)
	UpdateFields(id uint, fields map[string]interface{}) (*model.Item, error)
	Delete(id uint) error
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

// withAssociations loads the item's location and its images in display order.
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Location").Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
}

func (r *itemRepo) FindAll() ([]model.Item, error) {
	var items []model.Item
	err := withAssociations(r.db).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *itemRepo) FindByID(id uint) (*model.Item, error) {
	var item model.Item
	if err := withAssociations(r.db).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) Create(item *model.Item) (*model.Item, error) {
	if err := r.db.Create(item).Error; err != nil {
		return nil, err
	}
	return r.FindByID(item.ID)
}

// UpdateFields persists only the given columns, then reloads the record with
// its associations. An empty set degrades to a plain fetch.
func (r *itemRepo) UpdateFields(id uint, fields map[string]interface{}) (*model.Item, error) {
	if len(fields) > 0 {
		res := r.db.Model(&model.Item{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.FindByID(id)
}

func (r *itemRepo) Delete(id uint) error {
	res := r.db.Delete(&model.Item{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
