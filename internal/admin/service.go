package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"farmbooking/internal/auth"
	"farmbooking/internal/models"
)

var (
	ErrOwnerNotFound = errors.New("owner not found")
	ErrInvalid       = errors.New("invalid input")
)

// Owners is the account directory the admin service manages. Implemented by
// repo.AccountStore.
type Owners interface {
	CountOwners(ctx context.Context) (int64, error)
	ListOwners(ctx context.Context, offset, limit int) ([]models.Account, error)
	// GetOwner returns ErrOwnerNotFound when the id is unknown or not an owner.
	GetOwner(ctx context.Context, id uint) (*models.Account, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	SaveAccount(ctx context.Context, acct *models.Account) error
	// ProvisionOwner creates the account and its first farmhouse in one
	// transaction; a half-provisioned owner must not be observable.
	ProvisionOwner(ctx context.Context, acct *models.Account, fh *models.Farmhouse) error
}

// Farms is the farmhouse registry side the admin service writes to.
type Farms interface {
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Farmhouse, error)
	Create(ctx context.Context, fh *models.Farmhouse) error
}

type Service struct {
	owners Owners
	farms  Farms
}

func NewService(owners Owners, farms Farms) *Service {
	return &Service{owners: owners, farms: farms}
}

// Page sizes the owner list accepts; anything else falls back to the default.
var allowedPageSizes = map[int]bool{10: true, 25: true, 50: true, 75: true, 100: true}

const defaultPageSize = 25

type FarmhouseBrief struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Size     int    `json:"size"`
	Location string `json:"location"`
}

type OwnerRow struct {
	ID         uint             `json:"id"`
	Username   string           `json:"username"`
	Email      *string          `json:"email"`
	Phone      *string          `json:"phone"`
	IsActive   bool             `json:"is_active"`
	Farmhouses []FarmhouseBrief `json:"farmhouses"`
}

type PagedOwners struct {
	Items    []OwnerRow `json:"items"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Pages    int        `json:"pages"`
}

// ListOwners returns one page of owner accounts with their farmhouse briefs.
// Out-of-range pages clamp instead of erroring.
func (s *Service) ListOwners(ctx context.Context, page, pageSize int) (*PagedOwners, error) {
	if !allowedPageSizes[pageSize] {
		pageSize = defaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total, err := s.owners.CountOwners(ctx)
	if err != nil {
		return nil, err
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	if total == 0 {
		return &PagedOwners{Items: []OwnerRow{}, Total: 0, Page: 1, PageSize: pageSize, Pages: 1}, nil
	}
	if page > pages {
		page = pages
	}
	offset := (page - 1) * pageSize
	accounts, err := s.owners.ListOwners(ctx, offset, pageSize)
	if err != nil {
		return nil, err
	}
	items := make([]OwnerRow, 0, len(accounts))
	for _, o := range accounts {
		fhs, err := s.farms.ListByOwner(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		briefs := make([]FarmhouseBrief, 0, len(fhs))
		for _, fh := range fhs {
			briefs = append(briefs, FarmhouseBrief{ID: fh.ID, Name: fh.Name, Size: fh.Size, Location: fh.Location})
		}
		items = append(items, OwnerRow{
			ID: o.ID, Username: o.Username, Email: o.Email, Phone: o.Phone,
			IsActive: o.IsActive, Farmhouses: briefs,
		})
	}
	return &PagedOwners{Items: items, Total: total, Page: page, PageSize: pageSize, Pages: pages}, nil
}

type CreateOwnerInput struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	FarmhouseName string `json:"farmhouse_name"`
	Email         string `json:"email"`
	Size          int    `json:"size"`
	Location      string `json:"location"`
	Phone         string `json:"phone"`
}

// CreateOwner provisions an owner account together with its farmhouse.
func (s *Service) CreateOwner(ctx context.Context, in CreateOwnerInput) (*models.Farmhouse, error) {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Password) == "" ||
		strings.TrimSpace(in.FarmhouseName) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("%w: username, password, email and farmhouse_name are required", ErrInvalid)
	}
	if taken, err := s.owners.UsernameTaken(ctx, in.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("%w: user already exists", ErrInvalid)
	}
	if taken, err := s.owners.EmailTaken(ctx, in.Email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("%w: user already exists", ErrInvalid)
	}
	if in.Size <= 0 {
		return nil, fmt.Errorf("%w: size must be a positive integer", ErrInvalid)
	}
	phone := strings.TrimSpace(in.Phone)
	if !validPhone(phone) {
		return nil, fmt.Errorf("%w: enter a valid phone number (7-15 digits)", ErrInvalid)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(in.Email)
	acct := &models.Account{
		Username:     in.Username,
		Email:        &email,
		PasswordHash: hash,
		Role:         models.RoleOwner,
		IsActive:     true,
		Phone:        &phone,
	}
	fh := &models.Farmhouse{
		Name:     in.FarmhouseName,
		Size:     in.Size,
		Location: in.Location,
	}
	if err := s.owners.ProvisionOwner(ctx, acct, fh); err != nil {
		return nil, err
	}
	return fh, nil
}

// CreateFarmhouse attaches a further farmhouse to an existing owner.
func (s *Service) CreateFarmhouse(ctx context.Context, name string, ownerID uint, size int, location string) (*models.Farmhouse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if _, err := s.owners.GetOwner(ctx, ownerID); err != nil {
		if errors.Is(err, ErrOwnerNotFound) {
			return nil, fmt.Errorf("%w: owner_id must refer to an owner user", ErrInvalid)
		}
		return nil, err
	}
	fh := &models.Farmhouse{Name: name, OwnerID: ownerID, Size: size, Location: location}
	if err := s.farms.Create(ctx, fh); err != nil {
		return nil, err
	}
	return fh, nil
}

// UpdateContact edits an owner's email and/or phone. A nil field is left
// untouched; an empty string clears it.
func (s *Service) UpdateContact(ctx context.Context, ownerID uint, email, phone *string) error {
	if email == nil && phone == nil {
		return fmt.Errorf("%w: provide email and/or phone to update", ErrInvalid)
	}
	acct, err := s.owners.GetOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if email != nil {
		e := strings.TrimSpace(*email)
		if e != "" {
			taken, err := s.owners.EmailTaken(ctx, e, ownerID)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: email already in use", ErrInvalid)
			}
			acct.Email = &e
		} else {
			acct.Email = nil
		}
	}
	if phone != nil {
		p := strings.TrimSpace(*phone)
		if p != "" && !validPhone(p) {
			return fmt.Errorf("%w: enter a valid phone number (7-15 digits)", ErrInvalid)
		}
		if p == "" {
			acct.Phone = nil
		} else {
			acct.Phone = &p
		}
	}
	return s.owners.SaveAccount(ctx, acct)
}

// SetActive toggles the account flag. A deactivated owner fails every request
// at the authorization boundary from the next token resolution on.
func (s *Service) SetActive(ctx context.Context, ownerID uint, active bool) error {
	acct, err := s.owners.GetOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	acct.IsActive = active
	return s.owners.SaveAccount(ctx, acct)
}

// ResetPassword replaces an owner's credential.
func (s *Service) ResetPassword(ctx context.Context, ownerID uint, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: new password must not be empty", ErrInvalid)
	}
	acct, err := s.owners.GetOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	acct.PasswordHash = hash
	return s.owners.SaveAccount(ctx, acct)
}

// validPhone accepts numbers whose digit count is between 7 and 15;
// separators and a leading + are ignored.
func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= 7 && digits <= 15
}
