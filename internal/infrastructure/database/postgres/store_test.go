package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/coffee-backend/internal/config"
	"github.com/your-org/coffee-backend/internal/domain/loyalty"
	"github.com/your-org/coffee-backend/internal/domain/order"
	"github.com/your-org/coffee-backend/internal/domain/pricing"
	"github.com/your-org/coffee-backend/internal/domain/reward"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	// one connection so every query sees the same in-memory database
	db, err := Wrap(gdb, config.DatabaseConfig{MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logtest.NewNullLogger()
	migration := NewMigration(gdb, log)
	require.NoError(t, migration.RunAutoMigrations())
	require.NoError(t, migration.CreateIndexes())
	require.NoError(t, migration.SeedInitialData())
	return gdb
}

func sampleOrder(id, customerID string, created time.Time) *order.Order {
	opts := pricing.Options{Shot: pricing.ShotDouble, Temperature: pricing.TemperatureIced, Size: pricing.SizeLarge, Ice: pricing.IceLess}
	return &order.Order{
		ID:         id,
		CustomerID: customerID,
		Status:     order.StatusOngoing,
		Subtotal:   155000,
		Total:      155000,
		AmountDue:  155000,
		Address:    "1 Roast Road",
		CreatedAt:  created,
		UpdatedAt:  created,
		Items: []order.LineItem{
			{OrderID: id, Position: 0, CoffeeID: "latte", CoffeeName: "Caffe Latte", Options: opts, Quantity: 2, UnitPrice: 60000, TotalPrice: 120000},
			{OrderID: id, Position: 1, CoffeeID: "espresso", CoffeeName: "Espresso", Options: pricing.DefaultOptions(), Quantity: 1, UnitPrice: 35000, TotalPrice: 35000},
		},
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	log, _ := logtest.NewNullLogger()

	require.NoError(t, NewMigration(db, log).SeedInitialData())

	counts, err := NewMigration(db, log).GetTableInfo()
	require.NoError(t, err)
	assert.EqualValues(t, 6, counts["coffees"])
	assert.EqualValues(t, len(reward.DefaultCatalog()), counts["rewards"])
}

func TestMenuStore(t *testing.T) {
	store := NewMenuStore(newTestDB(t))
	ctx := context.Background()

	coffees, err := store.ListCoffees(ctx)
	require.NoError(t, err)
	require.Len(t, coffees, 6)
	assert.Equal(t, "espresso", coffees[0].ID)

	coffee, err := store.GetCoffee(ctx, "caramel-macchiato")
	require.NoError(t, err)
	assert.True(t, coffee.BasePrice.Equal(decimal.RequireFromString("42500.50")), coffee.BasePrice.String())

	missing, err := store.GetCoffee(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemberStoreUpsert(t *testing.T) {
	store := NewMemberStore(newTestDB(t))
	ctx := context.Background()

	missing, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, missing)

	m := loyalty.NewMember("alice")
	m.Address = "1 Roast Road"
	m.Account.Points = 1200
	require.NoError(t, store.Save(ctx, m))

	m.Account.Points = 40
	m.Account.Stamps = 3
	require.NoError(t, store.Save(ctx, m))

	loaded, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(40), loaded.Account.Points)
	assert.Equal(t, 3, loaded.Account.Stamps)
	assert.Equal(t, loyalty.DefaultMaxStamps, loaded.Account.MaxStamps)
	assert.Equal(t, "1 Roast Road", loaded.Address)
}

func TestOrderStore(t *testing.T) {
	store := NewOrderStore(newTestDB(t))
	ctx := context.Background()
	t0 := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, sampleOrder("o-1", "alice", t0)))
	require.NoError(t, store.Insert(ctx, sampleOrder("o-2", "alice", t0.Add(time.Minute))))

	got, err := store.Get(ctx, "o-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "latte", got.Items[0].CoffeeID)
	assert.Equal(t, pricing.SizeLarge, got.Items[0].Options.Size)
	assert.Equal(t, pricing.IceLess, got.Items[0].Options.Ice)
	assert.Equal(t, pricing.Money(120000), got.Items[0].TotalPrice)

	orders, err := store.ListByCustomer(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o-2", orders[0].ID)

	require.NoError(t, store.UpdateStatus(ctx, "o-1", order.StatusCancelled))
	got, err = store.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, got.Status)
	assert.Equal(t, pricing.Money(155000), got.Total)

	assert.ErrorIs(t, store.UpdateStatus(ctx, "nope", order.StatusCancelled), apperror.ErrOrderNotFound)

	missing, err := store.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRewardStore(t *testing.T) {
	store := NewRewardStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.MarkRedeemed(ctx, "alice", "free-latte"))
	assert.ErrorIs(t, store.MarkRedeemed(ctx, "alice", "free-latte"), apperror.ErrAlreadyRedeemed)
	assert.ErrorIs(t, store.MarkRedeemed(ctx, "alice", "nope"), apperror.ErrRewardNotFound)

	rewards, err := store.ListRewards(ctx, "alice")
	require.NoError(t, err)
	for _, r := range rewards {
		assert.Equal(t, r.ID == "free-latte", r.Redeemed, r.ID)
	}

	others, err := store.ListRewards(ctx, "bob")
	require.NoError(t, err)
	for _, r := range others {
		assert.False(t, r.Redeemed, r.ID)
	}

	t0 := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendHistory(ctx, &reward.HistoryEntry{ID: "h-1", CustomerID: "alice", Delta: 3, Label: "earned", Kind: reward.HistoryEarned, CreatedAt: t0}))
	require.NoError(t, store.AppendHistory(ctx, &reward.HistoryEntry{ID: "h-2", CustomerID: "alice", Delta: -500, Label: "Free latte", Kind: reward.HistoryRedeemed, CreatedAt: t0.Add(time.Hour)}))

	history, err := store.ListHistory(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "h-2", history[0].ID)
}

func TestTransactorRollsBack(t *testing.T) {
	db := newTestDB(t)
	tx := NewTransactor(db)
	members := NewMemberStore(db)
	orders := NewOrderStore(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, orders.Insert(ctx, sampleOrder("o-1", "alice", time.Now().UTC())))
		require.NoError(t, members.Save(ctx, loyalty.NewMember("alice")))

		// nested calls join the outer transaction
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	got, err := orders.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	m, err := members.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestTransactorCommits(t *testing.T) {
	db := newTestDB(t)
	tx := NewTransactor(db)
	members := NewMemberStore(db)
	ctx := context.Background()

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return members.Save(ctx, loyalty.NewMember("alice"))
	})
	require.NoError(t, err)

	m, err := members.Load(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, m)
}
