package repository

import (
	"context"

	"fruitables-shop/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MerchandiseRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, merchandiseID uint) (*model.Merchandise, error)
	FindMany(ctx context.Context, merchandiseIDs []uint) ([]*model.Merchandise, error)
	List(ctx context.Context, categoryID uint, query string) ([]*model.Merchandise, error)
	FindByCategory(ctx context.Context, categoryID uint, excludeID uint, limit int) ([]*model.Merchandise, error)
	FindCategory(ctx context.Context, categoryID uint) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
}

type merchandiseRepoImpl struct {
	db *gorm.DB
}

func NewMerchandiseRepository(db *gorm.DB) MerchandiseRepository {
	return &merchandiseRepoImpl{
		db: db,
	}
}

func (r *merchandiseRepoImpl) Seed(ctx context.Context) error {
	categories := []model.Category{
		{ID: 1, Name: "Fruits", Description: "Fresh fruits"},
		{ID: 2, Name: "Vegetables", Description: "Fresh vegetables"},
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error; err != nil {
		return err
	}

	merchandises := []model.Merchandise{
		{ID: 1, Name: "Apple", CategoryID: 1, UnitPrice: 10.0, Unit: "kg", Image: "apple.jpg"},
		{ID: 2, Name: "Banana", CategoryID: 1, UnitPrice: 5.5, Unit: "kg", Image: "banana.jpg"},
		{ID: 3, Name: "Carrot", CategoryID: 2, UnitPrice: 3.0, Unit: "kg", Image: "carrot.jpg"},
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&merchandises).Error
}

func (r *merchandiseRepoImpl) FindByID(ctx context.Context, merchandiseID uint) (*model.Merchandise, error) {
	var merchandise model.Merchandise
	err := r.db.WithContext(ctx).
		Where("id = ?", merchandiseID).
		First(&merchandise).Error

	if err != nil {
		return nil, err
	}

	return &merchandise, nil
}

func (r *merchandiseRepoImpl) FindMany(ctx context.Context, merchandiseIDs []uint) ([]*model.Merchandise, error) {
	var merchandises []*model.Merchandise
	err := r.db.WithContext(ctx).
		Where("id IN ?", merchandiseIDs).
		Find(&merchandises).
		Error

	if err != nil {
		return nil, err
	}

	return merchandises, nil
}

func (r *merchandiseRepoImpl) List(ctx context.Context, categoryID uint, query string) ([]*model.Merchandise, error) {
	db := r.db.WithContext(ctx).Model(&model.Merchandise{})

	if categoryID != 0 {
		db = db.Where("merchandises.category_id = ?", categoryID)
	}
	if query != "" {
		pattern := "%" + query + "%"
		db = db.Joins("JOIN categories ON categories.id = merchandises.category_id").
			Where("merchandises.name LIKE ? OR categories.name LIKE ?", pattern, pattern)
	}

	var merchandises []*model.Merchandise
	if err := db.Find(&merchandises).Error; err != nil {
		return nil, err
	}

	return merchandises, nil
}

func (r *merchandiseRepoImpl) FindByCategory(ctx context.Context, categoryID uint, excludeID uint, limit int) ([]*model.Merchandise, error) {
	var merchandises []*model.Merchandise
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ?", categoryID, excludeID).
		Limit(limit).
		Find(&merchandises).Error

	if err != nil {
		return nil, err
	}

	return merchandises, nil
}

func (r *merchandiseRepoImpl) FindCategory(ctx context.Context, categoryID uint) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("id = ?", categoryID).
		First(&category).Error

	if err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *merchandiseRepoImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.WithContext(ctx).Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}
