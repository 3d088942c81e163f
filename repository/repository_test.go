package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"home-flavours/models"
	"home-flavours/repository"
	"home-flavours/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/DATA-DOG/go-sqlmock.v1"
	"gorm.io/datatypes"
)

func newUser(t *testing.T, store *repository.Store, username string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FullName:     username,
		Role:         role,
	}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func newItem(t *testing.T, store *repository.Store, name string, price int64, makerID *uint) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		Name:          name,
		Price:         decimal.NewFromInt(price),
		DayOfWeek:     "Monday",
		TiffinMakerID: makerID,
		IsAvailable:   true,
	}
	require.NoError(t, store.MenuItems.Create(context.Background(), item))
	return item
}

func TestUserDuplicateUsername(t *testing.T) {
	store := repository.NewStore(testutil.NewDB(t))
	newUser(t, store, "rahul", models.RoleCustomer)

	err := store.Users.Create(context.Background(), &models.User{
		Username: "rahul", Email: "other@example.com", PasswordHash: "x", FullName: "R", Role: models.RoleCustomer,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	exists, err := store.Users.ExistsByUsernameOrEmail(context.Background(), "someone", "rahul@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserFindByIDNotFound(t *testing.T) {
	store := repository.NewStore(testutil.NewDB(t))
	_, err := store.Users.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserListFilters(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	newUser(t, store, "alice", models.RoleCustomer)
	newUser(t, store, "bob", models.RoleCustomer)
	newUser(t, store, "chef", models.RoleTiffinMaker)

	customers, err := store.Users.List(ctx, repository.UserFilter{Role: models.RoleCustomer})
	require.NoError(t, err)
	assert.Len(t, customers, 2)

	found, err := store.Users.List(ctx, repository.UserFilter{Search: "ali"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice", found[0].Username)
}

func TestSessionExpiry(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	u := newUser(t, store, "rahul", models.RoleCustomer)
	now := time.Now()

	require.NoError(t, store.Sessions.Create(ctx, &models.Session{ID: "live", UserID: u.ID, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Sessions.Create(ctx, &models.Session{ID: "dead", UserID: u.ID, ExpiresAt: now.Add(-time.Hour)}))

	_, err := store.Sessions.FindActive(ctx, "live", now)
	assert.NoError(t, err)
	_, err = store.Sessions.FindActive(ctx, "dead", now)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	n, err := store.Sessions.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCartIncrement(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	u := newUser(t, store, "rahul", models.RoleCustomer)
	item := newItem(t, store, "Dal Khichdi", 80, nil)

	entry := &models.CartEntry{CustomerID: u.ID, MenuItemID: item.ID, Quantity: 2}
	require.NoError(t, store.Cart.Create(ctx, entry))
	require.NoError(t, store.Cart.Increment(ctx, entry.ID, 3))

	got, err := store.Cart.Find(ctx, u.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)

	dup := &models.CartEntry{CustomerID: u.ID, MenuItemID: item.ID, Quantity: 1}
	assert.ErrorIs(t, store.Cart.Create(ctx, dup), repository.ErrDuplicate)
}

func TestCartDeleteEntryScopedToCustomer(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	alice := newUser(t, store, "alice", models.RoleCustomer)
	bob := newUser(t, store, "bob", models.RoleCustomer)
	item := newItem(t, store, "Thali Special", 120, nil)

	entry := &models.CartEntry{CustomerID: alice.ID, MenuItemID: item.ID, Quantity: 1}
	require.NoError(t, store.Cart.Create(ctx, entry))

	assert.ErrorIs(t, store.Cart.DeleteEntry(ctx, bob.ID, entry.ID), repository.ErrNotFound)
	assert.NoError(t, store.Cart.DeleteEntry(ctx, alice.ID, entry.ID))
}

func TestMenuItemFindOrCreate(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))

	first, err := store.MenuItems.FindOrCreate(ctx, &models.MenuItem{
		Name: "Pulao with Raita", Price: decimal.NewFromInt(100), DayOfWeek: "Monday", IsAvailable: true,
	})
	require.NoError(t, err)
	second, err := store.MenuItems.FindOrCreate(ctx, &models.MenuItem{
		Name: "Pulao with Raita", Price: decimal.NewFromInt(100), DayOfWeek: "Monday", IsAvailable: true,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	n, err := store.MenuItems.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestOrderAggregates(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	u := newUser(t, store, "rahul", models.RoleCustomer)
	dal := newItem(t, store, "Dal Khichdi", 80, nil)
	roti := newItem(t, store, "Roti Sabzi", 90, nil)
	today := datatypes.Date(time.Now())

	place := func(status models.OrderStatus, items ...models.OrderItem) *models.Order {
		o := &models.Order{
			CustomerID:    u.ID,
			OrderDate:     today,
			DeliveryDate:  today,
			PaymentMethod: models.PaymentCOD,
			Status:        status,
			Items:         items,
		}
		for _, it := range items {
			o.TotalAmount = o.TotalAmount.Add(it.LineTotal())
		}
		require.NoError(t, store.Orders.Create(ctx, o))
		return o
	}
	line := func(item *models.MenuItem, qty int) models.OrderItem {
		return models.OrderItem{MenuItemID: item.ID, Quantity: qty, PricePerUnit: item.Price, Name: item.Name}
	}

	place(models.StatusPending, line(dal, 2), line(roti, 1))
	place(models.StatusDelivered, line(dal, 1))
	place(models.StatusCancelled, line(roti, 5))

	revenue, err := store.Orders.Revenue(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(330).Equal(revenue), revenue.String())

	counts, err := store.Orders.StatusCounts(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[models.StatusPending])
	assert.EqualValues(t, 1, counts[models.StatusCancelled])

	popular, err := store.Orders.PopularItems(ctx, repository.OrderFilter{}, 5)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "Dal Khichdi", popular[0].Name)
	assert.EqualValues(t, 3, popular[0].TotalOrdered)

	n, err := store.Orders.CountByMenuItem(ctx, roti.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func newOrder(t *testing.T, store *repository.Store, customerID uint, total string, status models.OrderStatus) *models.Order {
	t.Helper()
	o := &models.Order{
		CustomerID:    customerID,
		OrderDate:     datatypes.Date(time.Now()),
		DeliveryDate:  datatypes.Date(time.Now()),
		PaymentMethod: models.PaymentCOD,
		Status:        status,
		TotalAmount:   decimal.RequireFromString(total),
	}
	require.NoError(t, store.Orders.Create(context.Background(), o))
	return o
}

func TestRevenueKeepsCents(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	u := newUser(t, store, "rahul", models.RoleCustomer)
	newOrder(t, store, u.ID, "10.10", models.StatusPending)
	newOrder(t, store, u.ID, "20.20", models.StatusDelivered)
	newOrder(t, store, u.ID, "0.70", models.StatusCancelled)

	revenue, err := store.Orders.Revenue(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, "30.3", revenue.String())

	days, err := store.Orders.DailyRevenue(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, time.Now().Format("2006-01-02"), days[0].Day)
	assert.EqualValues(t, 2, days[0].Orders)
	assert.Equal(t, "30.3", days[0].Revenue.String())
}

func TestAggregatesRespectCreatedWindow(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	u := newUser(t, store, "rahul", models.RoleCustomer)
	newOrder(t, store, u.ID, "100", models.StatusPending)

	now := time.Now()
	past := now.AddDate(0, 0, -10)
	yesterday := now.AddDate(0, 0, -1)
	old := repository.OrderFilter{From: &past, Until: &yesterday}

	revenue, err := store.Orders.Revenue(ctx, old)
	require.NoError(t, err)
	assert.True(t, revenue.IsZero(), revenue.String())

	counts, err := store.Orders.StatusCounts(ctx, old)
	require.NoError(t, err)
	assert.Empty(t, counts)

	days, err := store.Orders.DailyRevenue(ctx, old)
	require.NoError(t, err)
	assert.Empty(t, days)

	tomorrow := now.AddDate(0, 0, 1)
	n, err := store.Orders.Count(ctx, repository.OrderFilter{From: &past, Until: &tomorrow})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestOrderUpdateStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	u := newUser(t, store, "rahul", models.RoleCustomer)
	o := &models.Order{
		CustomerID:    u.ID,
		OrderDate:     datatypes.Date(time.Now()),
		DeliveryDate:  datatypes.Date(time.Now()),
		PaymentMethod: models.PaymentCOD,
		Status:        models.StatusPending,
	}
	require.NoError(t, store.Orders.Create(ctx, o))

	require.NoError(t, store.Orders.UpdateStatus(ctx, o.ID, models.StatusPending, models.StatusConfirmed))
	err := store.Orders.UpdateStatus(ctx, o.ID, models.StatusPending, models.StatusCancelled)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx *repository.Store) error {
		newUser(t, tx, "ghost", models.RoleCustomer)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := store.Users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFindUserDatabaseError(t *testing.T) {
	sqlDB, db, mock := testutil.DbMock(t)
	defer sqlDB.Close()
	store := repository.NewStore(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
		WillReturnError(errors.New("connection reset"))

	_, err := store.Users.FindByID(context.Background(), 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestFindUserNoRows(t *testing.T) {
	sqlDB, db, mock := testutil.DbMock(t)
	defer sqlDB.Close()
	store := repository.NewStore(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}))

	_, err := store.Users.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusStaleRow(t *testing.T) {
	sqlDB, db, mock := testutil.DbMock(t)
	defer sqlDB.Close()
	store := repository.NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders" SET "status"=\$1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := store.Orders.UpdateStatus(context.Background(), 7, models.StatusPending, models.StatusConfirmed)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Nil(t, mock.ExpectationsWereMet())
}
