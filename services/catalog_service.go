package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"home-flavours/models"
	"home-flavours/repository"
	"home-flavours/seed"
)

// CatalogService serves the weekly menu and turns its entries into
// menu_items rows on demand.
type CatalogService struct {
	store *repository.Store
	menu  []seed.MenuDay
	mu    sync.Mutex
}

func NewCatalogService(store *repository.Store, menu []seed.MenuDay) *CatalogService {
	return &CatalogService{store: store, menu: menu}
}

func (s *CatalogService) WeeklyMenu() []seed.MenuDay {
	return s.menu
}

// Day returns the entries for a weekday name, matched case-insensitively
func (s *CatalogService) Day(day string) (*seed.MenuDay, error) {
	for i := range s.menu {
		if strings.EqualFold(s.menu[i].Day, strings.TrimSpace(day)) {
			return &s.menu[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDay, day)
}

// Today returns the menu for now's weekday
func (s *CatalogService) Today(now time.Time) (*seed.MenuDay, error) {
	return s.Day(now.Weekday().String())
}

// Entry looks up a single catalog entry by day and dish name
func (s *CatalogService) Entry(day, name string) (string, *seed.MenuEntry, error) {
	d, err := s.Day(day)
	if err != nil {
		return "", nil, err
	}
	for i := range d.Items {
		if strings.EqualFold(d.Items[i].Name, strings.TrimSpace(name)) {
			return d.Day, &d.Items[i], nil
		}
	}
	return "", nil, fmt.Errorf("%w: %q on %s", ErrNotInCatalog, name, d.Day)
}

// Materialize returns the menu_items row for a catalog entry, creating it
// the first time anyone orders it. The row is owned by the first active
// tiffin maker, if there is one. The insert commits before the lock is
// released so concurrent callers always see it.
func (s *CatalogService) Materialize(ctx context.Context, day, name string) (*models.MenuItem, error) {
	day, entry, err := s.Entry(day, name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var item *models.MenuItem
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		candidate := &models.MenuItem{
			Name:        entry.Name,
			Description: entry.Description,
			Price:       entry.Price,
			Icon:        entry.Icon,
			DayOfWeek:   day,
			IsAvailable: true,
		}
		maker, err := tx.TiffinMakers.FirstActive(ctx)
		switch {
		case err == nil:
			candidate.TiffinMakerID = &maker.ID
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		item, err = tx.MenuItems.FindOrCreate(ctx, candidate)
		return err
	})
	return item, err
}
