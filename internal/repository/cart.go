package repository

import (
	"context"
	"time"

	"fruitables-shop/internal/model"

	"gorm.io/gorm"
)

// CartRepository scopes every query by the cart owner: a customer id, or a
// session id with customer_id IS NULL for anonymous carts. Mutations take an
// explicit tx so the checkout transaction can clear the cart atomically;
// callers outside a transaction pass the base *gorm.DB.
type CartRepository interface {
	Find(ctx context.Context, owner model.CartOwner) ([]*model.CartItem, error)
	FindOne(ctx context.Context, owner model.CartOwner, merchandiseID uint) (*model.CartItem, error)
	Create(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	Save(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	Delete(ctx context.Context, tx *gorm.DB, itemID uint) error
	DeleteAll(ctx context.Context, tx *gorm.DB, owner model.CartOwner) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func ownerScope(owner model.CartOwner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if owner.Anonymous() {
			return db.Where("session_id = ? AND customer_id IS NULL", owner.SessionID)
		}
		return db.Where("customer_id = ?", owner.CustomerID)
	}
}

func (r *cartRepoImpl) Find(ctx context.Context, owner model.CartOwner) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := r.db.WithContext(ctx).
		Scopes(ownerScope(owner)).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepoImpl) FindOne(ctx context.Context, owner model.CartOwner, merchandiseID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Scopes(ownerScope(owner)).
		Where("merchandise_id = ?", merchandiseID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *cartRepoImpl) Create(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return tx.WithContext(ctx).Create(item).Error
}

func (r *cartRepoImpl) Save(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return tx.WithContext(ctx).Save(item).Error
}

func (r *cartRepoImpl) Delete(ctx context.Context, tx *gorm.DB, itemID uint) error {
	return tx.WithContext(ctx).Delete(&model.CartItem{}, itemID).Error
}

func (r *cartRepoImpl) DeleteAll(ctx context.Context, tx *gorm.DB, owner model.CartOwner) error {
	return tx.WithContext(ctx).
		Scopes(ownerScope(owner)).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepoImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("customer_id IS NULL AND updated_at < ?", before).
		Delete(&model.CartItem{})

	return result.RowsAffected, result.Error
}
