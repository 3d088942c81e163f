package services

import (
	"context"
	"strings"

	"home-flavours/models"
	"home-flavours/repository"

	"github.com/shopspring/decimal"
)

var weekdays = map[string]string{
	"monday":    "Monday",
	"tuesday":   "Tuesday",
	"wednesday": "Wednesday",
	"thursday":  "Thursday",
	"friday":    "Friday",
	"saturday":  "Saturday",
	"sunday":    "Sunday",
}

func normalizeDay(day string) (string, error) {
	d, ok := weekdays[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		return "", invalid("%q is not a day of the week", day)
	}
	return d, nil
}

type MenuItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Icon        string
	DayOfWeek   string
	IsAvailable *bool
}

type MenuItemUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Icon        *string
	DayOfWeek   *string
	IsAvailable *bool
}

// MenuService lets tiffin makers manage the menu rows they own
type MenuService struct {
	store  *repository.Store
	makers *MakerService
}

func NewMenuService(store *repository.Store, makers *MakerService) *MenuService {
	return &MenuService{store: store, makers: makers}
}

func (s *MenuService) ownedItem(ctx context.Context, userID, itemID uint) (*models.MenuItem, error) {
	maker, err := s.makers.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.MenuItems.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.TiffinMakerID == nil || *item.TiffinMakerID != maker.ID {
		return nil, ErrForbidden
	}
	return item, nil
}

func (s *MenuService) Create(ctx context.Context, userID uint, in MenuItemInput) (*models.MenuItem, error) {
	maker, err := s.makers.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid("name is required")
	}
	if !in.Price.IsPositive() {
		return nil, invalid("price must be greater than zero")
	}
	day, err := normalizeDay(in.DayOfWeek)
	if err != nil {
		return nil, err
	}

	item := models.MenuItem{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		Icon:          in.Icon,
		DayOfWeek:     day,
		TiffinMakerID: &maker.ID,
		IsAvailable:   true,
	}
	if err := s.store.MenuItems.Create(ctx, &item); err != nil {
		return nil, err
	}
	// gorm skips false for columns with a default, so set it explicitly
	if in.IsAvailable != nil && !*in.IsAvailable {
		if err := s.store.MenuItems.SetAvailability(ctx, item.ID, false); err != nil {
			return nil, err
		}
		item.IsAvailable = false
	}
	return &item, nil
}

func (s *MenuService) Update(ctx context.Context, userID, itemID uint, in MenuItemUpdate) (*models.MenuItem, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, invalid("name cannot be empty")
		}
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, invalid("price must be greater than zero")
		}
		item.Price = *in.Price
	}
	if in.Icon != nil {
		item.Icon = *in.Icon
	}
	if in.DayOfWeek != nil {
		day, err := normalizeDay(*in.DayOfWeek)
		if err != nil {
			return nil, err
		}
		item.DayOfWeek = day
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if err := s.store.MenuItems.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) SetAvailability(ctx context.Context, userID, itemID uint, available bool) (*models.MenuItem, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.store.MenuItems.SetAvailability(ctx, item.ID, available); err != nil {
		return nil, err
	}
	item.IsAvailable = available
	return item, nil
}

// Delete removes an owned item that no order refers to. Cart lines
// holding it are dropped with it.
func (s *MenuService) Delete(ctx context.Context, userID, itemID uint) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		n, err := tx.Orders.CountByMenuItem(ctx, item.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrMenuItemInUse
		}
		if err := tx.Cart.DeleteByMenuItem(ctx, item.ID); err != nil {
			return err
		}
		return tx.MenuItems.Delete(ctx, item.ID)
	})
}

// ListMine returns every item the caller owns, available or not
func (s *MenuService) ListMine(ctx context.Context, userID uint) ([]models.MenuItem, error) {
	maker, err := s.makers.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.MenuItems.List(ctx, repository.MenuItemFilter{TiffinMakerID: &maker.ID})
}

// ListForMaker returns a maker's orderable items, optionally for one day
func (s *MenuService) ListForMaker(ctx context.Context, makerID uint, day string) ([]models.MenuItem, error) {
	maker, err := s.store.TiffinMakers.FindByID(ctx, makerID)
	if err != nil {
		return nil, err
	}
	if !maker.IsActive {
		return nil, ErrNotFound
	}
	filter := repository.MenuItemFilter{TiffinMakerID: &maker.ID, AvailableOnly: true}
	if day != "" {
		if filter.DayOfWeek, err = normalizeDay(day); err != nil {
			return nil, err
		}
	}
	return s.store.MenuItems.List(ctx, filter)
}
