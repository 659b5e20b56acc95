package service

import (
	"context"
	"errors"
	"log"
	"time"

	"fruitables-shop/internal/dto"
	"fruitables-shop/internal/model"
	"fruitables-shop/internal/repository"

	"gorm.io/gorm"
)

// CartService owns the cart rows for both anonymous sessions and logged-in
// customers. Mutations report success as a bool; persistence errors are
// logged and never escape as faults.
type CartService interface {
	Get(ctx context.Context, owner model.CartOwner) []dto.CartItem
	AddOrUpdate(ctx context.Context, owner model.CartOwner, merchandiseID uint, delta int32) bool
	SetQuantity(ctx context.Context, owner model.CartOwner, merchandiseID uint, quantity int32) bool
	Remove(ctx context.Context, owner model.CartOwner, merchandiseID uint) bool
	Clear(ctx context.Context, owner model.CartOwner) bool
	Merge(ctx context.Context, sessionID, customerID string) bool
	PurgeExpired(ctx context.Context) (int64, error)
}

type cartServiceImpl struct {
	db              *gorm.DB
	cartRepo        repository.CartRepository
	merchandiseRepo repository.MerchandiseRepository
	retentionDays   int
}

func NewCartService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	merchandiseRepo repository.MerchandiseRepository,
	retentionDays int,
) CartService {
	return &cartServiceImpl{
		db:              db,
		cartRepo:        cartRepo,
		merchandiseRepo: merchandiseRepo,
		retentionDays:   retentionDays,
	}
}

func customerIDColumn(owner model.CartOwner) *string {
	if owner.Anonymous() {
		return nil
	}
	id := owner.CustomerID
	return &id
}

func (s *cartServiceImpl) Get(ctx context.Context, owner model.CartOwner) []dto.CartItem {
	items, err := s.cartRepo.Find(ctx, owner)
	if err != nil {
		log.Println("get cart:", err)
		return []dto.CartItem{}
	}
	if len(items) == 0 {
		return []dto.CartItem{}
	}

	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.MerchandiseID
	}

	merchandises, err := s.merchandiseRepo.FindMany(ctx, ids)
	if err != nil {
		log.Println("get cart merchandises:", err)
		return []dto.CartItem{}
	}

	byID := make(map[uint]*model.Merchandise, len(merchandises))
	for _, m := range merchandises {
		byID[m.ID] = m
	}

	view := make([]dto.CartItem, 0, len(items))
	for _, item := range items {
		m, ok := byID[item.MerchandiseID]
		if !ok {
			// merchandise deleted since the line was added; skip in the view,
			// checkout rejects it explicitly
			continue
		}
		view = append(view, dto.CartItem{
			MerchandiseID: item.MerchandiseID,
			Name:          m.Name,
			Image:         m.Image,
			Price:         m.UnitPrice,
			Quantity:      item.Quantity,
		})
	}

	return view
}

// AddOrUpdate is a read-then-write increment with no row locking: two
// concurrent adds for the same line can lose one of the updates.
func (s *cartServiceImpl) AddOrUpdate(ctx context.Context, owner model.CartOwner, merchandiseID uint, delta int32) bool {
	existing, err := s.cartRepo.FindOne(ctx, owner, merchandiseID)
	switch {
	case err == nil:
		existing.Quantity += delta
		existing.UpdatedAt = time.Now()
		if err := s.cartRepo.Save(ctx, s.db, existing); err != nil {
			log.Println("update cart item:", err)
			return false
		}
		return true

	case errors.Is(err, gorm.ErrRecordNotFound):
		now := time.Now()
		item := &model.CartItem{
			CustomerID:    customerIDColumn(owner),
			SessionID:     owner.SessionID,
			MerchandiseID: merchandiseID,
			Quantity:      delta,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.cartRepo.Create(ctx, s.db, item); err != nil {
			log.Println("add cart item:", err)
			return false
		}
		return true

	default:
		log.Println("find cart item:", err)
		return false
	}
}

func (s *cartServiceImpl) SetQuantity(ctx context.Context, owner model.CartOwner, merchandiseID uint, quantity int32) bool {
	item, err := s.cartRepo.FindOne(ctx, owner, merchandiseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("find cart item:", err)
		}
		return false
	}

	if quantity <= 0 {
		if err := s.cartRepo.Delete(ctx, s.db, item.ID); err != nil {
			log.Println("remove cart item:", err)
			return false
		}
		return true
	}

	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	if err := s.cartRepo.Save(ctx, s.db, item); err != nil {
		log.Println("update quantity:", err)
		return false
	}
	return true
}

func (s *cartServiceImpl) Remove(ctx context.Context, owner model.CartOwner, merchandiseID uint) bool {
	item, err := s.cartRepo.FindOne(ctx, owner, merchandiseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("find cart item:", err)
		}
		return false
	}

	if err := s.cartRepo.Delete(ctx, s.db, item.ID); err != nil {
		log.Println("remove cart item:", err)
		return false
	}
	return true
}

func (s *cartServiceImpl) Clear(ctx context.Context, owner model.CartOwner) bool {
	if err := s.cartRepo.DeleteAll(ctx, s.db, owner); err != nil {
		log.Println("clear cart:", err)
		return false
	}
	return true
}

// Merge is a one-shot transfer of the anonymous session cart into the
// customer cart: quantities of matching lines are summed, the rest become new
// customer lines, and every anonymous line for the session is deleted whether
// or not it was merged. A second call is a no-op since the source rows are
// gone. Not safe to call concurrently with itself for the same session.
func (s *cartServiceImpl) Merge(ctx context.Context, sessionID, customerID string) bool {
	anonymous := model.CartOwner{SessionID: sessionID}
	customer := model.CartOwner{CustomerID: customerID, SessionID: sessionID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		anonymousItems, err := s.cartRepo.Find(ctx, anonymous)
		if err != nil {
			return err
		}
		if len(anonymousItems) == 0 {
			return nil
		}

		customerItems, err := s.cartRepo.Find(ctx, customer)
		if err != nil {
			return err
		}
		byMerchandise := make(map[uint]*model.CartItem, len(customerItems))
		for _, item := range customerItems {
			byMerchandise[item.MerchandiseID] = item
		}

		now := time.Now()
		for _, anonymousItem := range anonymousItems {
			if existing, ok := byMerchandise[anonymousItem.MerchandiseID]; ok {
				existing.Quantity += anonymousItem.Quantity
				existing.UpdatedAt = now
				if err := s.cartRepo.Save(ctx, tx, existing); err != nil {
					return err
				}
			} else {
				newItem := &model.CartItem{
					CustomerID:    &customerID,
					SessionID:     sessionID,
					MerchandiseID: anonymousItem.MerchandiseID,
					Quantity:      anonymousItem.Quantity,
					CreatedAt:     now,
					UpdatedAt:     now,
				}
				if err := s.cartRepo.Create(ctx, tx, newItem); err != nil {
					return err
				}
			}
		}

		return s.cartRepo.DeleteAll(ctx, tx, anonymous)
	})

	if err != nil {
		log.Printf("merge cart session %s into customer %s: %v", sessionID, customerID, err)
		return false
	}
	return true
}

func (s *cartServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.cartRepo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Printf("purged %d expired anonymous cart items", deleted)
	}
	return deleted, nil
}
