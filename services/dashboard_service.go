package services

import (
	"context"
	"errors"
	"time"

	"home-flavours/models"
	"home-flavours/repository"

	"github.com/shopspring/decimal"
)

const (
	recentOrdersLimit = 5
	popularItemsLimit = 5
	defaultRangeDays  = 30
)

// DateRange is an inclusive span of calendar days. A zero To means today
// and a zero From means the 30 days ending at To.
type DateRange struct {
	From time.Time
	To   time.Time
}

type CustomerDashboard struct {
	TotalOrders  int64          `json:"total_orders"`
	CartItems    int64          `json:"cart_items"`
	RecentOrders []models.Order `json:"recent_orders"`
}

type MakerDashboard struct {
	Maker          *models.TiffinMaker          `json:"maker"`
	From           string                       `json:"from"`
	To             string                       `json:"to"`
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
	TotalOrders    int64                        `json:"total_orders"`
	Revenue        decimal.Decimal              `json:"revenue"`
	DailyRevenue   []repository.DailyRevenue    `json:"daily_revenue"`
	PopularItems   []repository.PopularItem     `json:"popular_items"`
}

// AdminOverview counts users, makers and menu items over all time; order
// figures cover the requested range only.
type AdminOverview struct {
	From           string                       `json:"from"`
	To             string                       `json:"to"`
	TotalUsers     int64                        `json:"total_users"`
	TotalOrders    int64                        `json:"total_orders"`
	Revenue        decimal.Decimal              `json:"revenue"`
	DailyRevenue   []repository.DailyRevenue    `json:"daily_revenue"`
	ActiveMakers   int64                        `json:"active_makers"`
	MenuItems      int64                        `json:"menu_items"`
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
	PopularItems   []repository.PopularItem     `json:"popular_items"`
	RecentOrders   []models.Order               `json:"recent_orders"`
}

type DashboardService struct {
	store *repository.Store
	now   func() time.Time
}

func NewDashboardService(store *repository.Store) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// resolve fills in the defaults and returns the range as a created_at
// window
func (s *DashboardService) resolve(r DateRange) (DateRange, repository.OrderFilter, error) {
	if r.To.IsZero() {
		r.To = s.now()
	}
	r.To = startOfDay(r.To)
	if r.From.IsZero() {
		r.From = r.To.AddDate(0, 0, -(defaultRangeDays - 1))
	}
	r.From = startOfDay(r.From)
	if r.From.After(r.To) {
		return r, repository.OrderFilter{}, invalid("from date must not be after to date")
	}
	from, until := r.From, r.To.AddDate(0, 0, 1)
	return r, repository.OrderFilter{From: &from, Until: &until}, nil
}

// dailySeries returns one point per day of r, zero where nothing sold
func (s *DashboardService) dailySeries(ctx context.Context, r DateRange, filter repository.OrderFilter) ([]repository.DailyRevenue, error) {
	sold, err := s.store.Orders.DailyRevenue(ctx, filter)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]repository.DailyRevenue, len(sold))
	for _, d := range sold {
		byDay[d.Day] = d
	}
	var series []repository.DailyRevenue
	for day := r.From; !day.After(r.To); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		point, ok := byDay[key]
		if !ok {
			point = repository.DailyRevenue{Day: key, Revenue: decimal.Zero}
		}
		series = append(series, point)
	}
	return series, nil
}

func (s *DashboardService) Customer(ctx context.Context, customerID uint) (*CustomerDashboard, error) {
	total, err := s.store.Orders.Count(ctx, repository.OrderFilter{CustomerID: &customerID})
	if err != nil {
		return nil, err
	}
	cart, err := s.store.Cart.CountByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.Orders.List(ctx, repository.OrderFilter{CustomerID: &customerID, Limit: recentOrdersLimit})
	if err != nil {
		return nil, err
	}
	return &CustomerDashboard{TotalOrders: total, CartItems: cart, RecentOrders: recent}, nil
}

func (s *DashboardService) Maker(ctx context.Context, userID uint, rng DateRange) (*MakerDashboard, error) {
	rng, filter, err := s.resolve(rng)
	if err != nil {
		return nil, err
	}
	maker, err := s.store.TiffinMakers.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoMakerProfile
	}
	if err != nil {
		return nil, err
	}
	filter.TiffinMakerID = &maker.ID

	d := &MakerDashboard{
		Maker: maker,
		From:  rng.From.Format("2006-01-02"),
		To:    rng.To.Format("2006-01-02"),
	}
	if d.OrdersByStatus, err = s.store.Orders.StatusCounts(ctx, filter); err != nil {
		return nil, err
	}
	for _, n := range d.OrdersByStatus {
		d.TotalOrders += n
	}
	if d.Revenue, err = s.store.Orders.Revenue(ctx, filter); err != nil {
		return nil, err
	}
	if d.DailyRevenue, err = s.dailySeries(ctx, rng, filter); err != nil {
		return nil, err
	}
	if d.PopularItems, err = s.store.Orders.PopularItems(ctx, filter, popularItemsLimit); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DashboardService) Admin(ctx context.Context, rng DateRange) (*AdminOverview, error) {
	rng, filter, err := s.resolve(rng)
	if err != nil {
		return nil, err
	}
	o := AdminOverview{
		From: rng.From.Format("2006-01-02"),
		To:   rng.To.Format("2006-01-02"),
	}
	if o.TotalUsers, err = s.store.Users.Count(ctx); err != nil {
		return nil, err
	}
	if o.TotalOrders, err = s.store.Orders.Count(ctx, filter); err != nil {
		return nil, err
	}
	if o.Revenue, err = s.store.Orders.Revenue(ctx, filter); err != nil {
		return nil, err
	}
	if o.DailyRevenue, err = s.dailySeries(ctx, rng, filter); err != nil {
		return nil, err
	}
	if o.ActiveMakers, err = s.store.TiffinMakers.CountActive(ctx); err != nil {
		return nil, err
	}
	if o.MenuItems, err = s.store.MenuItems.Count(ctx); err != nil {
		return nil, err
	}
	if o.OrdersByStatus, err = s.store.Orders.StatusCounts(ctx, filter); err != nil {
		return nil, err
	}
	if o.PopularItems, err = s.store.Orders.PopularItems(ctx, filter, popularItemsLimit); err != nil {
		return nil, err
	}
	if o.RecentOrders, err = s.store.Orders.List(ctx, repository.OrderFilter{Limit: recentOrdersLimit}); err != nil {
		return nil, err
	}
	return &o, nil
}
