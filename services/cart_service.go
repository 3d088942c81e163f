package services

import (
	"context"
	"errors"

	"home-flavours/models"
	"home-flavours/repository"

	"github.com/romana/rlog"
	"github.com/shopspring/decimal"
)

// MaxQuantityPerAdd bounds a single add or quantity update
const MaxQuantityPerAdd = 10

type CartLine struct {
	ID           uint            `json:"id"`
	MenuItemID   uint            `json:"menu_item_id"`
	Name         string          `json:"name"`
	Icon         string          `json:"icon"`
	DayOfWeek    string          `json:"day_of_week"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
	IsAvailable  bool            `json:"is_available"`
}

type CartView struct {
	Lines []CartLine      `json:"lines"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// CartService keeps one persistent cart per customer
type CartService struct {
	store   *repository.Store
	catalog *CatalogService
	locks   *keyedMutex
}

func NewCartService(store *repository.Store, catalog *CatalogService) *CartService {
	return &CartService{store: store, catalog: catalog, locks: newKeyedMutex()}
}

func checkQuantity(qty int) error {
	if qty < 1 || qty > MaxQuantityPerAdd {
		return invalid("quantity must be between 1 and %d", MaxQuantityPerAdd)
	}
	return nil
}

// AddItem puts qty of a menu item in the customer's cart, adding to the
// existing line if the item is already there.
func (s *CartService) AddItem(ctx context.Context, customerID, menuItemID uint, qty int) (*models.CartEntry, error) {
	if err := checkQuantity(qty); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(customerID)
	defer unlock()
	return s.addByID(ctx, customerID, menuItemID, qty)
}

// AddCatalogItem adds a dish from the weekly menu by day and name
func (s *CartService) AddCatalogItem(ctx context.Context, customerID uint, day, name string, qty int) (*models.CartEntry, error) {
	if err := checkQuantity(qty); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(customerID)
	defer unlock()

	item, err := s.catalog.Materialize(ctx, day, name)
	if err != nil {
		return nil, err
	}
	return s.addByID(ctx, customerID, item.ID, qty)
}

func (s *CartService) addByID(ctx context.Context, customerID, menuItemID uint, qty int) (*models.CartEntry, error) {
	var entry *models.CartEntry
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		item, err := tx.MenuItems.FindByID(ctx, menuItemID)
		if err != nil {
			return err
		}
		entry, err = s.add(ctx, tx, customerID, item, qty)
		return err
	})
	return entry, err
}

func sameMaker(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// add requires the caller to hold the customer's lock. A cart only ever
// holds items of one tiffin maker.
func (s *CartService) add(ctx context.Context, tx *repository.Store, customerID uint, item *models.MenuItem, qty int) (*models.CartEntry, error) {
	if !item.IsAvailable {
		return nil, ErrItemUnavailable
	}
	if item.TiffinMaker != nil && !item.TiffinMaker.IsActive {
		return nil, ErrItemUnavailable
	}

	lines, err := tx.Cart.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if !sameMaker(line.MenuItem.TiffinMakerID, item.TiffinMakerID) {
			return nil, ErrMixedMakers
		}
	}

	entry, err := tx.Cart.Find(ctx, customerID, item.ID)
	switch {
	case err == nil:
		if err := tx.Cart.Increment(ctx, entry.ID, qty); err != nil {
			return nil, err
		}
		entry.Quantity += qty
	case errors.Is(err, repository.ErrNotFound):
		entry = &models.CartEntry{CustomerID: customerID, MenuItemID: item.ID, Quantity: qty}
		if err := tx.Cart.Create(ctx, entry); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	entry.MenuItem = *item
	rlog.Debugf("Cart of customer %d: %s x%d", customerID, item.Name, entry.Quantity)
	return entry, nil
}

// UpdateQuantity sets a line's quantity; zero removes the line
func (s *CartService) UpdateQuantity(ctx context.Context, customerID, entryID uint, qty int) error {
	if qty == 0 {
		return s.RemoveItem(ctx, customerID, entryID)
	}
	if err := checkQuantity(qty); err != nil {
		return err
	}
	unlock := s.locks.Lock(customerID)
	defer unlock()

	err := s.store.Cart.SetQuantity(ctx, customerID, entryID, qty)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCartEntryNotFound
	}
	return err
}

// RemoveItem deletes exactly one line of the caller's cart
func (s *CartService) RemoveItem(ctx context.Context, customerID, entryID uint) error {
	unlock := s.locks.Lock(customerID)
	defer unlock()

	err := s.store.Cart.DeleteEntry(ctx, customerID, entryID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCartEntryNotFound
	}
	return err
}

func (s *CartService) Clear(ctx context.Context, customerID uint) error {
	unlock := s.locks.Lock(customerID)
	defer unlock()
	return s.store.Cart.DeleteByCustomer(ctx, customerID)
}

// ClearAll empties every customer's cart
func (s *CartService) ClearAll(ctx context.Context) (int64, error) {
	n, err := s.store.Cart.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	rlog.Infof("Cleared %d cart entries", n)
	return n, nil
}

func (s *CartService) View(ctx context.Context, customerID uint) (*CartView, error) {
	entries, err := s.store.Cart.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return buildCartView(entries), nil
}

func buildCartView(entries []models.CartEntry) *CartView {
	view := &CartView{Lines: make([]CartLine, 0, len(entries)), Total: decimal.Zero}
	for _, e := range entries {
		line := CartLine{
			ID:           e.ID,
			MenuItemID:   e.MenuItemID,
			Name:         e.MenuItem.Name,
			Icon:         e.MenuItem.Icon,
			DayOfWeek:    e.MenuItem.DayOfWeek,
			PricePerUnit: e.MenuItem.Price,
			Quantity:     e.Quantity,
			LineTotal:    e.MenuItem.Price.Mul(decimal.NewFromInt(int64(e.Quantity))),
			IsAvailable:  e.MenuItem.IsAvailable,
		}
		view.Lines = append(view.Lines, line)
		view.Total = view.Total.Add(line.LineTotal)
	}
	view.Count = len(view.Lines)
	return view
}
