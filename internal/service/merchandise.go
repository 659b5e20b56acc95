package service

import (
	"context"
	"errors"
	"fmt"

	"fruitables-shop/internal/dto"
	"fruitables-shop/internal/model"
	"fruitables-shop/internal/repository"

	"gorm.io/gorm"
)

var ErrMerchandiseNotFound = errors.New("merchandise not found")

// MerchandiseService is read-only browsing; the checkout core never writes
// merchandise.
type MerchandiseService interface {
	List(ctx context.Context, categoryID uint, query string) ([]dto.MerchandiseView, error)
	GetDetail(ctx context.Context, merchandiseID uint) (*dto.MerchandiseView, []dto.MerchandiseView, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
}

type merchandiseServiceImpl struct {
	merchandiseRepo repository.MerchandiseRepository
}

func NewMerchandiseService(merchandiseRepo repository.MerchandiseRepository) MerchandiseService {
	return &merchandiseServiceImpl{
		merchandiseRepo: merchandiseRepo,
	}
}

func (s *merchandiseServiceImpl) List(ctx context.Context, categoryID uint, query string) ([]dto.MerchandiseView, error) {
	merchandises, err := s.merchandiseRepo.List(ctx, categoryID, query)
	if err != nil {
		return nil, fmt.Errorf("list merchandises: %w", err)
	}

	return s.toViews(ctx, merchandises)
}

func (s *merchandiseServiceImpl) GetDetail(ctx context.Context, merchandiseID uint) (*dto.MerchandiseView, []dto.MerchandiseView, error) {
	merchandise, err := s.merchandiseRepo.FindByID(ctx, merchandiseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrMerchandiseNotFound
		}
		return nil, nil, fmt.Errorf("find merchandise: %w", err)
	}

	views, err := s.toViews(ctx, []*model.Merchandise{merchandise})
	if err != nil {
		return nil, nil, err
	}

	related, err := s.merchandiseRepo.FindByCategory(ctx, merchandise.CategoryID, merchandise.ID, 4)
	if err != nil {
		return nil, nil, fmt.Errorf("find related merchandises: %w", err)
	}
	relatedViews, err := s.toViews(ctx, related)
	if err != nil {
		return nil, nil, err
	}

	return &views[0], relatedViews, nil
}

func (s *merchandiseServiceImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.merchandiseRepo.ListCategories(ctx)
}

func (s *merchandiseServiceImpl) toViews(ctx context.Context, merchandises []*model.Merchandise) ([]dto.MerchandiseView, error) {
	categories, err := s.merchandiseRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	names := make(map[uint]string, len(categories))
	for _, category := range categories {
		names[category.ID] = category.Name
	}

	views := make([]dto.MerchandiseView, len(merchandises))
	for i, m := range merchandises {
		views[i] = dto.MerchandiseView{
			MerchandiseID: m.ID,
			Name:          m.Name,
			Price:         m.UnitPrice,
			Image:         m.Image,
			Description:   m.Description,
			CategoryName:  names[m.CategoryID],
		}
	}
	return views, nil
}
