package repository

import (
	"context"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DishRepository interface {
	Create(ctx context.Context, d *model.Dish) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Dish, error)
	// FindByNameAndCategory backs the duplicate-name check: a dish name
	// must be unique within its category.
	FindByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*model.Dish, error)
	List(ctx context.Context, filter dto.DishFilter) ([]model.Dish, error)
	Update(ctx context.Context, d *model.Dish) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type dishRepo struct{ db *gorm.DB }

func NewDishRepository(db *gorm.DB) DishRepository { return &dishRepo{db: db} }

func (r *dishRepo) Create(ctx context.Context, d *model.Dish) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *dishRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Dish, error) {
	var d model.Dish
	err := r.db.WithContext(ctx).Preload("Category").First(&d, "id = ?", id).Error
	return &d, err
}

func (r *dishRepo) FindByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*model.Dish, error) {
	var d model.Dish
	err := r.db.WithContext(ctx).Where("name = ? AND category_id = ?", name, categoryID).First(&d).Error
	return &d, err
}

func (r *dishRepo) List(ctx context.Context, filter dto.DishFilter) ([]model.Dish, error) {
	q := r.db.WithContext(ctx).Model(&model.Dish{}).Preload("Category")

	switch filter.Available {
	case "false":
		q = q.Where("available = false")
	case "all":
		// no filter
	default:
		q = q.Where("available = true")
	}

	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}

	var dishes []model.Dish
	err := q.Order("name ASC").Find(&dishes).Error
	return dishes, err
}

func (r *dishRepo) Update(ctx context.Context, d *model.Dish) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *dishRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Dish{}, "id = ?", id).Error
}
