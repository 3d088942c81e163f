package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"home-flavours/models"
	"home-flavours/repository"
	"home-flavours/seed"
	"home-flavours/services"
	"home-flavours/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	err   error
	calls int
}

func (g *fakeGateway) CreatePayment(_ context.Context, orderID uint, _ decimal.Decimal) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("pi_test_%d", orderID), nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events map[uint][]string
}

func (n *recordingNotifier) Notify(userID uint, e services.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[userID] = append(n.events[userID], e.Type)
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	m.sent = append(m.sent, to+": "+subject)
	return nil
}

type fixture struct {
	store     *repository.Store
	auth      *services.AuthService
	catalog   *services.CatalogService
	makers    *services.MakerService
	menu      *services.MenuService
	cart      *services.CartService
	orders    *services.OrderService
	dashboard *services.DashboardService
	admin     *services.AdminService
	gateway   *fakeGateway
	notifier  *recordingNotifier
	mailer    *recordingMailer

	customer *models.User
	chef     *models.User
	root     *models.User
	kitchen  *models.TiffinMaker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	data, err := seed.Load("")
	require.NoError(t, err)
	require.NoError(t, seed.Apply(ctx, store, data))

	f := &fixture{
		store:    store,
		gateway:  &fakeGateway{},
		notifier: &recordingNotifier{events: map[uint][]string{}},
		mailer:   &recordingMailer{},
	}
	f.auth = services.NewAuthService(store, []byte("test-secret"), time.Hour)
	f.catalog = services.NewCatalogService(store, data.Menu)
	f.makers = services.NewMakerService(store)
	f.menu = services.NewMenuService(store, f.makers)
	f.cart = services.NewCartService(store, f.catalog)
	f.orders = services.NewOrderService(store, f.cart, f.gateway, f.notifier, f.mailer)
	f.dashboard = services.NewDashboardService(store)
	f.admin = services.NewAdminService(store, f.auth)

	f.customer, err = store.Users.FindByUsername(ctx, "customer1")
	require.NoError(t, err)
	f.chef, err = store.Users.FindByUsername(ctx, "chef1")
	require.NoError(t, err)
	f.root, err = store.Users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	f.kitchen, err = store.TiffinMakers.FindByUserID(ctx, f.chef.ID)
	require.NoError(t, err)
	return f
}

func (f *fixture) as(u *models.User) services.Principal {
	return services.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// fillCart puts 2 x Dal Khichdi (80) and 1 x Roti Sabzi (90) in the cart
func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.cart.AddCatalogItem(ctx, f.customer.ID, "Monday", "Dal Khichdi with Ghee", 2)
	require.NoError(t, err)
	_, err = f.cart.AddCatalogItem(ctx, f.customer.ID, "monday", "Roti Sabzi with Dal", 1)
	require.NoError(t, err)
}

func (f *fixture) placeCOD(t *testing.T) *models.Order {
	t.Helper()
	f.fillCart(t)
	order, err := f.orders.PlaceOrder(context.Background(), f.customer.ID, services.PlaceOrderInput{
		PaymentMethod: models.PaymentCOD,
	})
	require.NoError(t, err)
	return order
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestRegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.auth.Register(ctx, services.RegisterInput{
		Username: "meera", Email: "Meera@Example.com", Password: "secret1", FullName: "Meera Iyer",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.Equal(t, "meera@example.com", user.Email)

	res, err := f.auth.Login(ctx, "meera", "secret1")
	require.NoError(t, err)

	p, err := f.auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.UserID)
	assert.Equal(t, "meera", p.Username)

	require.NoError(t, f.auth.Logout(ctx, p.SessionID))
	_, err = f.auth.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestRegisterDuplicateLeavesExistingAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.Register(ctx, services.RegisterInput{
		Username: "customer1", Email: "new@example.com", Password: "another1", FullName: "Impostor",
	})
	assert.ErrorIs(t, err, services.ErrDuplicateAccount)

	_, err = f.auth.Login(ctx, "customer1", "customer123")
	assert.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := map[string]services.RegisterInput{
		"short password": {Username: "a", Email: "a@example.com", Password: "123", FullName: "A"},
		"bad email":      {Username: "b", Email: "not-an-email", Password: "secret1", FullName: "B"},
		"admin role":     {Username: "c", Email: "c@example.com", Password: "secret1", FullName: "C", Role: models.RoleAdmin},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.auth.Register(ctx, in)
			assert.ErrorIs(t, err, services.ErrInvalidInput)
		})
	}
}

func TestLoginFailuresLookAlike(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, errUnknown := f.auth.Login(ctx, "nobody", "whatever")
	_, errWrong := f.auth.Login(ctx, "customer1", "wrong-password")
	assert.ErrorIs(t, errUnknown, services.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, services.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

// ── Catalog & cart ───────────────────────────────────────────────────────────

func TestCatalogLookup(t *testing.T) {
	f := newFixture(t)

	day, err := f.catalog.Day("tUeSdAy")
	require.NoError(t, err)
	assert.Equal(t, "Tuesday", day.Day)
	assert.Len(t, day.Items, 4)

	_, err = f.catalog.Day("Funday")
	assert.ErrorIs(t, err, services.ErrUnknownDay)

	monday := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	today, err := f.catalog.Today(monday)
	require.NoError(t, err)
	assert.Equal(t, "Monday", today.Day)
}

func TestCatalogItemMaterializedOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.cart.AddCatalogItem(ctx, f.customer.ID, "Monday", "Thali Special", 1)
	require.NoError(t, err)
	second, err := f.cart.AddCatalogItem(ctx, f.customer.ID, "Monday", "thali special", 2)
	require.NoError(t, err)

	assert.Equal(t, first.MenuItemID, second.MenuItemID)
	assert.Equal(t, 3, second.Quantity)
	require.NotNil(t, second.MenuItem.TiffinMakerID)
	assert.Equal(t, f.kitchen.ID, *second.MenuItem.TiffinMakerID)

	n, err := f.store.MenuItems.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = f.cart.AddCatalogItem(ctx, f.customer.ID, "Monday", "Pizza", 1)
	assert.ErrorIs(t, err, services.ErrNotInCatalog)
}

func TestCatalogItemSharedAcrossCustomers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	customers := make([]uint, 6)
	for i := range customers {
		u, err := f.auth.Register(ctx, services.RegisterInput{
			Username: fmt.Sprintf("diner%d", i), Email: fmt.Sprintf("diner%d@example.com", i),
			Password: "secret1", FullName: "Diner",
		})
		require.NoError(t, err)
		customers[i] = u.ID
	}

	ids := make([]uint, len(customers))
	var wg sync.WaitGroup
	for i, id := range customers {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			entry, err := f.cart.AddCatalogItem(ctx, id, "Sunday", "Palak Paneer", 1)
			if assert.NoError(t, err) {
				ids[i] = entry.MenuItemID
			}
		}(i, id)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	n, err := f.store.MenuItems.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMaterializeCommitsOnItsOwn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.catalog.Materialize(ctx, "Monday", "Thali Special")
	require.NoError(t, err)
	stored, err := f.store.MenuItems.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thali Special", stored.Name)

	again, err := f.catalog.Materialize(ctx, "monday", "THALI SPECIAL")
	require.NoError(t, err)
	assert.Equal(t, item.ID, again.ID)
}

func TestCartRejectsMixedMakers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	other, err := f.auth.Register(ctx, services.RegisterInput{
		Username: "chef2", Email: "chef2@example.com", Password: "secret1", FullName: "Anita Rao", Role: models.RoleTiffinMaker,
	})
	require.NoError(t, err)
	_, err = f.makers.CreateProfile(ctx, other.ID, services.MakerProfileInput{BusinessName: "Anita's", Location: "Pune"})
	require.NoError(t, err)
	dosa, err := f.menu.Create(ctx, other.ID, services.MenuItemInput{
		Name: "Masala Dosa", Price: decimal.NewFromInt(95), DayOfWeek: "Monday",
	})
	require.NoError(t, err)

	_, err = f.cart.AddCatalogItem(ctx, f.customer.ID, "Monday", "Thali Special", 1)
	require.NoError(t, err)
	_, err = f.cart.AddItem(ctx, f.customer.ID, dosa.ID, 1)
	assert.ErrorIs(t, err, services.ErrMixedMakers)

	require.NoError(t, f.cart.Clear(ctx, f.customer.ID))
	_, err = f.cart.AddItem(ctx, f.customer.ID, dosa.ID, 2)
	require.NoError(t, err)
	_, err = f.cart.AddCatalogItem(ctx, f.customer.ID, "Monday", "Thali Special", 1)
	assert.ErrorIs(t, err, services.ErrMixedMakers)
}

func TestCartAccumulatesAndTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t)

	view, err := f.cart.View(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(160).Equal(view.Lines[0].LineTotal))
	assert.True(t, decimal.NewFromInt(250).Equal(view.Total), view.Total.String())
}

func TestCartQuantityBounds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.cart.AddCatalogItem(ctx, f.customer.ID, "Monday", "Thali Special", 0)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	_, err = f.cart.AddCatalogItem(ctx, f.customer.ID, "Monday", "Thali Special", 11)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestCartConcurrentAddsAreNotLost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	entry, err := f.cart.AddCatalogItem(ctx, f.customer.ID, "Friday", "Chicken Biryani", 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 9; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.cart.AddItem(ctx, f.customer.ID, entry.MenuItemID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := f.cart.View(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 10, view.Lines[0].Quantity)
}

func TestCartRemoveOnlyTargetsOneLine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t)

	view, err := f.cart.View(ctx, f.customer.ID)
	require.NoError(t, err)
	require.NoError(t, f.cart.RemoveItem(ctx, f.customer.ID, view.Lines[0].ID))

	view, err = f.cart.View(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "Roti Sabzi with Dal", view.Lines[0].Name)

	assert.ErrorIs(t, f.cart.RemoveItem(ctx, f.root.ID, view.Lines[0].ID), services.ErrCartEntryNotFound)

	require.NoError(t, f.cart.UpdateQuantity(ctx, f.customer.ID, view.Lines[0].ID, 0))
	view, err = f.cart.View(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartRejectsUnavailableItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	entry, err := f.cart.AddCatalogItem(ctx, f.customer.ID, "Monday", "Thali Special", 1)
	require.NoError(t, err)

	_, err = f.menu.SetAvailability(ctx, f.chef.ID, entry.MenuItemID, false)
	require.NoError(t, err)

	_, err = f.cart.AddItem(ctx, f.customer.ID, entry.MenuItemID, 1)
	assert.ErrorIs(t, err, services.ErrItemUnavailable)
}

// ── Orders ───────────────────────────────────────────────────────────────────

func TestPlaceOrderSnapshotsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.placeCOD(t)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.True(t, decimal.NewFromInt(250).Equal(order.TotalAmount), order.TotalAmount.String())
	assert.Equal(t, f.customer.Address, order.DeliveryAddress)
	require.NotNil(t, order.TiffinMakerID)
	assert.Equal(t, f.kitchen.ID, *order.TiffinMakerID)
	require.Len(t, order.Items, 2)
	require.Len(t, order.StatusHistory, 1)

	view, err := f.cart.View(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	// later price changes do not touch the order
	newPrice := decimal.NewFromInt(200)
	_, err = f.menu.Update(ctx, f.chef.ID, order.Items[0].MenuItemID, services.MenuItemUpdate{Price: &newPrice})
	require.NoError(t, err)
	reloaded, err := f.orders.Get(ctx, f.as(f.customer), order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(80).Equal(reloaded.Items[0].PricePerUnit))

	assert.Contains(t, f.notifier.events[f.customer.ID], services.EventOrderPlaced)
	assert.Contains(t, f.notifier.events[f.chef.ID], services.EventOrderPlaced)
	assert.Len(t, f.mailer.sent, 1)
	assert.Zero(t, f.gateway.calls)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.PlaceOrder(context.Background(), f.customer.ID, services.PlaceOrderInput{})
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestPlaceOrderRejectsPastDelivery(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	yesterday := time.Now().AddDate(0, 0, -1)
	_, err := f.orders.PlaceOrder(context.Background(), f.customer.ID, services.PlaceOrderInput{DeliveryDate: &yesterday})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestPlaceOrderGPay(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)

	order, err := f.orders.PlaceOrder(context.Background(), f.customer.ID, services.PlaceOrderInput{
		PaymentMethod: models.PaymentGPay,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.gateway.calls)
	assert.Equal(t, fmt.Sprintf("pi_test_%d", order.ID), order.PaymentReference)
}

func TestPlaceOrderPaymentFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t)
	f.gateway.err = errors.New("card declined")

	_, err := f.orders.PlaceOrder(ctx, f.customer.ID, services.PlaceOrderInput{PaymentMethod: models.PaymentGPay})
	require.Error(t, err)

	n, err := f.store.Orders.Count(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	view, err := f.cart.View(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2)
}

func TestOrderLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.placeCOD(t)
	chef := f.as(f.chef)

	for _, next := range []models.OrderStatus{
		models.StatusConfirmed,
		models.StatusPreparing,
		models.StatusOutForDelivery,
		models.StatusDelivered,
	} {
		updated, err := f.orders.UpdateStatus(ctx, chef, order.ID, next, "")
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	_, err := f.orders.Cancel(ctx, f.as(f.customer), order.ID, "")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	final, err := f.orders.Get(ctx, f.as(f.root), order.ID)
	require.NoError(t, err)
	assert.Len(t, final.StatusHistory, 5)
	assert.Equal(t, models.StatusDelivered, final.Status)
}

func TestOrderSkippingStepsRejected(t *testing.T) {
	f := newFixture(t)
	order := f.placeCOD(t)

	_, err := f.orders.UpdateStatus(context.Background(), f.as(f.chef), order.ID, models.StatusDelivered, "")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestCustomerCancelsPendingOrder(t *testing.T) {
	f := newFixture(t)
	order := f.placeCOD(t)

	cancelled, err := f.orders.Cancel(context.Background(), f.as(f.customer), order.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
}

func TestOrderOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.placeCOD(t)

	other, err := f.auth.Register(ctx, services.RegisterInput{
		Username: "chef2", Email: "chef2@example.com", Password: "secret1", FullName: "Anita Rao", Role: models.RoleTiffinMaker,
	})
	require.NoError(t, err)
	_, err = f.makers.CreateProfile(ctx, other.ID, services.MakerProfileInput{BusinessName: "Anita's", Location: "Pune"})
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(ctx, f.as(other), order.ID, models.StatusConfirmed, "")
	assert.ErrorIs(t, err, services.ErrForbidden)

	stranger, err := f.auth.Register(ctx, services.RegisterInput{
		Username: "stranger", Email: "s@example.com", Password: "secret1", FullName: "S",
	})
	require.NoError(t, err)
	_, err = f.orders.Cancel(ctx, f.as(stranger), order.ID, "")
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.orders.UpdateStatus(ctx, f.as(f.root), order.ID, models.StatusConfirmed, "admin override")
	assert.NoError(t, err)
}

func TestListForMakerFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.placeCOD(t)

	pending, err := f.orders.ListForMaker(ctx, f.chef.ID, models.StatusPending, nil)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, order.ID, pending[0].ID)

	today := time.Now()
	byDate, err := f.orders.ListForMaker(ctx, f.chef.ID, "", &today)
	require.NoError(t, err)
	assert.Len(t, byDate, 1)

	delivered, err := f.orders.ListForMaker(ctx, f.chef.ID, models.StatusDelivered, nil)
	require.NoError(t, err)
	assert.Empty(t, delivered)

	_, err = f.orders.ListForMaker(ctx, f.customer.ID, "", nil)
	assert.ErrorIs(t, err, services.ErrNoMakerProfile)
}

// ── Menu management ──────────────────────────────────────────────────────────

func TestMenuItemCRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	unavailable := false

	item, err := f.menu.Create(ctx, f.chef.ID, services.MenuItemInput{
		Name: "Masala Dosa", Price: decimal.NewFromInt(95), DayOfWeek: "saturday", IsAvailable: &unavailable,
	})
	require.NoError(t, err)
	assert.Equal(t, "Saturday", item.DayOfWeek)
	assert.False(t, item.IsAvailable)

	public, err := f.menu.ListForMaker(ctx, f.kitchen.ID, "")
	require.NoError(t, err)
	assert.Empty(t, public)

	mine, err := f.menu.ListMine(ctx, f.chef.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = f.menu.Create(ctx, f.chef.ID, services.MenuItemInput{Name: "Free Lunch", Price: decimal.Zero, DayOfWeek: "Monday"})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = f.menu.Create(ctx, f.customer.ID, services.MenuItemInput{Name: "X", Price: decimal.NewFromInt(1), DayOfWeek: "Monday"})
	assert.ErrorIs(t, err, services.ErrNoMakerProfile)

	require.NoError(t, f.menu.Delete(ctx, f.chef.ID, item.ID))
	_, err = f.store.MenuItems.FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMenuItemInUseCannotBeDeleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.placeCOD(t)

	err := f.menu.Delete(ctx, f.chef.ID, order.Items[0].MenuItemID)
	assert.ErrorIs(t, err, services.ErrMenuItemInUse)
}

// ── Dashboards & admin ───────────────────────────────────────────────────────

func TestDashboards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.placeCOD(t)

	cd, err := f.dashboard.Customer(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cd.TotalOrders)
	assert.Len(t, cd.RecentOrders, 1)

	md, err := f.dashboard.Maker(ctx, f.chef.ID, services.DateRange{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, md.OrdersByStatus[models.StatusPending])
	assert.True(t, decimal.NewFromInt(250).Equal(md.Revenue), md.Revenue.String())
	require.NotEmpty(t, md.PopularItems)
	assert.Equal(t, "Dal Khichdi with Ghee", md.PopularItems[0].Name)

	require.Len(t, md.DailyRevenue, 30)
	today := md.DailyRevenue[29]
	assert.Equal(t, time.Now().Format("2006-01-02"), today.Day)
	assert.EqualValues(t, 1, today.Orders)
	assert.True(t, decimal.NewFromInt(250).Equal(today.Revenue), today.Revenue.String())
	assert.True(t, md.DailyRevenue[0].Revenue.IsZero())

	ov, err := f.dashboard.Admin(ctx, services.DateRange{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, ov.TotalUsers)
	assert.EqualValues(t, 1, ov.ActiveMakers)
	assert.EqualValues(t, 2, ov.MenuItems)
	assert.EqualValues(t, 1, ov.TotalOrders)
	assert.Len(t, ov.DailyRevenue, 30)
}

func TestDashboardDateRange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.placeCOD(t)

	lastWeek := services.DateRange{From: time.Now().AddDate(0, 0, -7), To: time.Now().AddDate(0, 0, -1)}
	md, err := f.dashboard.Maker(ctx, f.chef.ID, lastWeek)
	require.NoError(t, err)
	assert.Zero(t, md.TotalOrders)
	assert.True(t, md.Revenue.IsZero(), md.Revenue.String())
	assert.Empty(t, md.PopularItems)
	assert.Len(t, md.DailyRevenue, 7)

	ov, err := f.dashboard.Admin(ctx, lastWeek)
	require.NoError(t, err)
	assert.Zero(t, ov.TotalOrders)
	assert.EqualValues(t, 3, ov.TotalUsers)
	assert.Len(t, ov.RecentOrders, 1)

	today := services.DateRange{From: time.Now(), To: time.Now()}
	md, err = f.dashboard.Maker(ctx, f.chef.ID, today)
	require.NoError(t, err)
	assert.EqualValues(t, 1, md.TotalOrders)
	assert.Len(t, md.DailyRevenue, 1)

	backwards := services.DateRange{From: time.Now(), To: time.Now().AddDate(0, 0, -3)}
	_, err = f.dashboard.Admin(ctx, backwards)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestAdminDeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.as(f.root)

	assert.ErrorIs(t, f.admin.DeleteUser(ctx, admin, f.root.ID), services.ErrInvalidInput)

	f.placeCOD(t)
	assert.ErrorIs(t, f.admin.DeleteUser(ctx, admin, f.customer.ID), services.ErrHasOrders)

	user, err := f.admin.CreateUser(ctx, services.RegisterInput{
		Username: "temp", Email: "temp@example.com", Password: "secret1", FullName: "Temp", Role: models.RoleCustomer,
	})
	require.NoError(t, err)
	_, err = f.auth.Login(ctx, "temp", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.admin.DeleteUser(ctx, admin, user.ID))
	_, err = f.store.Users.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMakerProfileRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.makers.CreateProfile(ctx, f.chef.ID, services.MakerProfileInput{BusinessName: "Again", Location: "Mumbai"})
	assert.ErrorIs(t, err, services.ErrMakerProfileExists)

	_, err = f.makers.CreateProfile(ctx, f.customer.ID, services.MakerProfileInput{BusinessName: "Nope", Location: "Mumbai"})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	require.NoError(t, f.makers.SetActive(ctx, f.kitchen.ID, false))
	active, err := f.makers.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestClearAllCarts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t)

	n, err := f.cart.ClearAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
