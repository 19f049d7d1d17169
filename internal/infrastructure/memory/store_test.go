package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/coffee-backend/internal/domain/cart"
	"github.com/your-org/coffee-backend/internal/domain/loyalty"
	"github.com/your-org/coffee-backend/internal/domain/order"
	"github.com/your-org/coffee-backend/internal/domain/reward"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
)

func TestSeededCatalogues(t *testing.T) {
	s := New()
	ctx := context.Background()

	coffees, err := s.Menu().ListCoffees(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, coffees)
	assert.Equal(t, "espresso", coffees[0].ID)

	missing, err := s.Menu().GetCoffee(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	rewards, err := s.Rewards().ListRewards(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, rewards, len(reward.DefaultCatalog()))
}

func TestCartStoreCopiesItems(t *testing.T) {
	s := New()
	ctx := context.Background()

	items := []cart.Item{{ID: "a", CoffeeID: "latte", Quantity: 1}}
	require.NoError(t, s.Carts().Save(ctx, "alice", items))
	items[0].Quantity = 99

	loaded, err := s.Carts().Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded[0].Quantity)

	require.NoError(t, s.Carts().Clear(ctx, "alice"))
	loaded, err = s.Carts().Load(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestTransactionRollsBackEveryWrite(t *testing.T) {
	s := New()
	ctx := context.Background()

	existing := loyalty.NewMember("alice")
	existing.Account.Points = 10
	require.NoError(t, s.Members().Save(ctx, existing))

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		changed := *existing
		changed.Account.Points = 500
		require.NoError(t, s.Members().Save(ctx, &changed))
		require.NoError(t, s.Members().Save(ctx, loyalty.NewMember("bob")))
		require.NoError(t, s.Orders().Insert(ctx, &order.Order{ID: "o1", CustomerID: "alice"}))
		require.NoError(t, s.Rewards().MarkRedeemed(ctx, "alice", "free-latte"))
		require.NoError(t, s.Rewards().AppendHistory(ctx, &reward.HistoryEntry{ID: "h1", CustomerID: "alice", Delta: -500}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	alice, err := s.Members().Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(10), alice.Account.Points)

	bob, err := s.Members().Load(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, bob)

	ord, err := s.Orders().Get(ctx, "o1")
	require.NoError(t, err)
	assert.Nil(t, ord)

	rewards, err := s.Rewards().ListRewards(ctx, "alice")
	require.NoError(t, err)
	for _, r := range rewards {
		assert.False(t, r.Redeemed, r.ID)
	}

	history, err := s.Rewards().ListHistory(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTransactionCommits(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.Rewards().AppendHistory(ctx, &reward.HistoryEntry{ID: "h1", CustomerID: "alice", Delta: 3})
	})
	require.NoError(t, err)

	history, err := s.Rewards().ListHistory(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].CreatedAt.IsZero())
}

func TestMarkRedeemedTwice(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Rewards().MarkRedeemed(ctx, "alice", "free-latte"))
	err := s.Rewards().MarkRedeemed(ctx, "alice", "free-latte")
	assert.ErrorIs(t, err, apperror.ErrAlreadyRedeemed)

	// redemptions are per customer
	require.NoError(t, s.Rewards().MarkRedeemed(ctx, "bob", "free-latte"))

	assert.ErrorIs(t, s.Rewards().MarkRedeemed(ctx, "bob", "nope"), apperror.ErrRewardNotFound)
}

func TestOrdersListedNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.Orders().Insert(ctx, &order.Order{ID: "old", CustomerID: "alice", CreatedAt: t0}))
	require.NoError(t, s.Orders().Insert(ctx, &order.Order{ID: "new", CustomerID: "alice", CreatedAt: t0.Add(time.Hour)}))
	require.NoError(t, s.Orders().Insert(ctx, &order.Order{ID: "other", CustomerID: "bob", CreatedAt: t0}))

	orders, err := s.Orders().ListByCustomer(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "new", orders[0].ID)
	assert.Equal(t, "old", orders[1].ID)

	require.NoError(t, s.Orders().UpdateStatus(ctx, "old", order.StatusCompleted))
	got, err := s.Orders().Get(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status)

	assert.ErrorIs(t, s.Orders().UpdateStatus(ctx, "missing", order.StatusCompleted), apperror.ErrOrderNotFound)
}

func TestFailNextIsOneShot(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	s.FailNext("SaveMember", boom)
	assert.ErrorIs(t, s.Members().Save(ctx, loyalty.NewMember("alice")), boom)
	assert.NoError(t, s.Members().Save(ctx, loyalty.NewMember("alice")))
}
