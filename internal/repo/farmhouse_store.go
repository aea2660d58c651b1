package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"farmbooking/internal/booking"
	"farmbooking/internal/models"
)

// FarmhouseStore is the gorm-backed booking.Catalog.
type FarmhouseStore struct{ db *gorm.DB }

func NewFarmhouseStore(db *gorm.DB) *FarmhouseStore { return &FarmhouseStore{db: db} }

func (s *FarmhouseStore) Get(ctx context.Context, id uint) (*models.Farmhouse, error) {
	var fh models.Farmhouse
	err := s.db.WithContext(ctx).First(&fh, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fh, nil
}

func (s *FarmhouseStore) List(ctx context.Context) ([]models.Farmhouse, error) {
	var out []models.Farmhouse
	if err := s.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FarmhouseStore) ListByOwner(ctx context.Context, ownerID uint) ([]models.Farmhouse, error) {
	var out []models.Farmhouse
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FarmhouseStore) Create(ctx context.Context, fh *models.Farmhouse) error {
	return s.db.WithContext(ctx).Create(fh).Error
}
