package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"farmbooking/internal/admin"
	"farmbooking/internal/booking"
	"farmbooking/internal/models"
)

type AccountStore struct{ db *gorm.DB }

func NewAccountStore(db *gorm.DB) *AccountStore { return &AccountStore{db: db} }

// FindByLogin matches the identifier against email or username, the same
// way tokens carry it.
func (s *AccountStore) FindByLogin(ctx context.Context, login string) (*models.Account, error) {
	var acct models.Account
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", login, login).
		First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (s *AccountStore) OwnedFarmhouseIDs(ctx context.Context, accountID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Farmhouse{}).
		Where("owner_id = ?", accountID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *AccountStore) CountOwners(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("role = ?", models.RoleOwner).
		Count(&n).Error
	return n, err
}

func (s *AccountStore) ListOwners(ctx context.Context, offset, limit int) ([]models.Account, error) {
	var accounts []models.Account
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleOwner).
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *AccountStore) GetOwner(ctx context.Context, id uint) (*models.Account, error) {
	var acct models.Account
	err := s.db.WithContext(ctx).First(&acct, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, admin.ErrOwnerNotFound
	}
	if err != nil {
		return nil, err
	}
	if acct.Role != models.RoleOwner {
		return nil, admin.ErrOwnerNotFound
	}
	return &acct, nil
}

func (s *AccountStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("username = ?", username).
		Count(&n).Error
	return n > 0, err
}

func (s *AccountStore) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (s *AccountStore) SaveAccount(ctx context.Context, acct *models.Account) error {
	return s.db.WithContext(ctx).Save(acct).Error
}

// ProvisionOwner creates the account and its first farmhouse atomically.
func (s *AccountStore) ProvisionOwner(ctx context.Context, acct *models.Account, fh *models.Farmhouse) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(acct).Error; err != nil {
			return err
		}
		fh.OwnerID = acct.ID
		return tx.Create(fh).Error
	})
}

// SeedAdmin creates the bootstrap administrator unless one already exists.
func (s *AccountStore) SeedAdmin(ctx context.Context, username, email, passwordHash, phone string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("role = ?", models.RoleAdmin).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	acct := models.Account{
		Username:     username,
		Email:        &email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if phone != "" {
		acct.Phone = &phone
	}
	return s.db.WithContext(ctx).Create(&acct).Error
}
