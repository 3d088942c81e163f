package repository

import (
	"context"
	"time"

	"home-flavours/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderFilter struct {
	CustomerID    *uint
	TiffinMakerID *uint
	Status        models.OrderStatus
	DeliveryDate  *time.Time
	// From and Until bound created_at as [From, Until)
	From  *time.Time
	Until *time.Time
	Limit int
}

// where applies the filter to query; prefix qualifies column names when
// orders is joined with another table
func (f OrderFilter) where(query *gorm.DB, prefix string) *gorm.DB {
	col := func(name string) string { return prefix + name }
	if f.CustomerID != nil {
		query = query.Where(col("customer_id")+" = ?", *f.CustomerID)
	}
	if f.TiffinMakerID != nil {
		query = query.Where(col("tiffin_maker_id")+" = ?", *f.TiffinMakerID)
	}
	if f.Status != "" {
		query = query.Where(col("status")+" = ?", f.Status)
	}
	if f.DeliveryDate != nil {
		query = query.Where(col("delivery_date")+" = ?", datatypes.Date(*f.DeliveryDate))
	}
	if f.From != nil {
		query = query.Where(col("created_at")+" >= ?", *f.From)
	}
	if f.Until != nil {
		query = query.Where(col("created_at")+" < ?", *f.Until)
	}
	return query
}

// PopularItem is one row of the best-seller ranking
type PopularItem struct {
	MenuItemID   uint   `json:"menu_item_id"`
	Name         string `json:"name"`
	TotalOrdered int64  `json:"total_ordered"`
}

// DailyRevenue is the takings of one calendar day
type DailyRevenue struct {
	Day     string          `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type OrderRepository interface {
	// Create inserts the order together with its Items
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// UpdateStatus moves the order to `to` only if it is still in `from`
	UpdateStatus(ctx context.Context, id uint, from, to models.OrderStatus) error
	SetPaymentReference(ctx context.Context, id uint, ref string) error
	AddHistory(ctx context.Context, entry *models.OrderStatusHistory) error

	Count(ctx context.Context, filter OrderFilter) (int64, error)
	CountByMenuItem(ctx context.Context, menuItemID uint) (int64, error)
	StatusCounts(ctx context.Context, filter OrderFilter) (map[models.OrderStatus]int64, error)
	Revenue(ctx context.Context, filter OrderFilter) (decimal.Decimal, error)
	// DailyRevenue groups non-cancelled orders by local creation day,
	// oldest first; days without orders are omitted
	DailyRevenue(ctx context.Context, filter OrderFilter) ([]DailyRevenue, error)
	PopularItems(ctx context.Context, filter OrderFilter, limit int) ([]PopularItem, error)
}

type orderRepo struct{ db *gorm.DB }

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	return translate(r.db.WithContext(ctx).Omit("Customer", "TiffinMaker").Create(order).Error)
}

func (r *orderRepo) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.MenuItem").
		Preload("Customer").
		Preload("TiffinMaker").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepo) filtered(ctx context.Context, filter OrderFilter) *gorm.DB {
	return filter.where(r.db.WithContext(ctx).Model(&models.Order{}), "")
}

func (r *orderRepo) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := r.filtered(ctx, filter).
		Preload("Items").
		Preload("Customer").
		Preload("TiffinMaker").
		Order("created_at desc, id desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var orders []models.Order
	err := query.Find(&orders).Error
	return orders, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint, from, to models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *orderRepo) SetPaymentReference(ctx context.Context, id uint, ref string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("payment_reference", ref).Error
}

func (r *orderRepo) AddHistory(ctx context.Context, entry *models.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *orderRepo) Count(ctx context.Context, filter OrderFilter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *orderRepo) CountByMenuItem(ctx context.Context, menuItemID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("menu_item_id = ?", menuItemID).Count(&n).Error
	return n, err
}

func (r *orderRepo) StatusCounts(ctx context.Context, filter OrderFilter) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := r.filtered(ctx, filter).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Revenue sums total_amount over every order that was not cancelled. The
// sum is taken in decimal: SQLite stores decimal columns as REAL and its
// SUM would drift.
func (r *orderRepo) Revenue(ctx context.Context, filter OrderFilter) (decimal.Decimal, error) {
	var totals []decimal.Decimal
	err := r.filtered(ctx, filter).
		Where("status <> ?", models.StatusCancelled).
		Pluck("total_amount", &totals).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, totals...).Round(2), nil
}

func (r *orderRepo) DailyRevenue(ctx context.Context, filter OrderFilter) ([]DailyRevenue, error) {
	var rows []struct {
		CreatedAt   time.Time
		TotalAmount decimal.Decimal
	}
	err := r.filtered(ctx, filter).
		Where("status <> ?", models.StatusCancelled).
		Select("created_at, total_amount").
		Order("created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var days []DailyRevenue
	for _, row := range rows {
		day := row.CreatedAt.In(time.Local).Format("2006-01-02")
		if n := len(days); n == 0 || days[n-1].Day != day {
			days = append(days, DailyRevenue{Day: day, Revenue: decimal.Zero})
		}
		last := &days[len(days)-1]
		last.Orders++
		last.Revenue = last.Revenue.Add(row.TotalAmount)
	}
	for i := range days {
		days[i].Revenue = days[i].Revenue.Round(2)
	}
	return days, nil
}

func (r *orderRepo) PopularItems(ctx context.Context, filter OrderFilter, limit int) ([]PopularItem, error) {
	query := r.db.WithContext(ctx).Table("order_items").
		Select("order_items.menu_item_id, order_items.name, SUM(order_items.quantity) AS total_ordered").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", models.StatusCancelled)
	query = filter.where(query, "orders.")
	var items []PopularItem
	err := query.
		Group("order_items.menu_item_id, order_items.name").
		Order("total_ordered desc").
		Limit(limit).
		Scan(&items).Error
	return items, err
}
