package repository

import (
	"context"

	"fruitables-shop/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindByUsername(ctx context.Context, username string) (*model.Customer, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type customerRepoImpl struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepoImpl{
		db: db,
	}
}

func (r *customerRepoImpl) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepoImpl) FindByUsername(ctx context.Context, username string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&customer).Error

	if err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepoImpl) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("username = ?", username).
		Count(&count).Error

	return count > 0, err
}

func (r *customerRepoImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("email = ?", email).
		Count(&count).Error

	return count > 0, err
}
