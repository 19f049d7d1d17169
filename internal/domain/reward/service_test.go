package reward_test

import (
	"context"
	"errors"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/coffee-backend/internal/domain/loyalty"
	"github.com/your-org/coffee-backend/internal/domain/reward"
	"github.com/your-org/coffee-backend/internal/infrastructure/memory"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
	"github.com/your-org/coffee-backend/internal/pkg/keylock"
)

func newService(t *testing.T, account loyalty.Account) (*reward.Service, *loyalty.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	log, _ := logtest.NewNullLogger()
	locks := keylock.New()

	loyaltyService := loyalty.NewService(store.Members(), locks, log)
	m := loyalty.NewMember("alice")
	m.Account = account
	require.NoError(t, loyaltyService.Save(context.Background(), m))

	return reward.NewService(store.Rewards(), loyaltyService, store, locks, log), loyaltyService, store
}

func TestRedeem(t *testing.T) {
	svc, loyaltyService, _ := newService(t, loyalty.Account{Points: 600, MaxStamps: 8})
	ctx := context.Background()

	result, err := svc.Redeem(ctx, "alice", "free-latte")
	require.NoError(t, err)
	assert.True(t, result.Reward.Redeemed)
	assert.Equal(t, int64(-500), result.Entry.Delta)
	assert.Equal(t, reward.HistoryRedeemed, result.Entry.Kind)
	assert.Equal(t, int64(100), result.Summary.Points)

	m, err := loyaltyService.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100), m.Account.Points)

	catalog, err := svc.Catalog(ctx, "alice")
	require.NoError(t, err)
	for _, r := range catalog {
		assert.Equal(t, r.ID == "free-latte", r.Redeemed, r.ID)
	}

	history, err := svc.History(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Free latte", history[0].Label)
}

func TestRedeemErrors(t *testing.T) {
	svc, loyaltyService, _ := newService(t, loyalty.Account{Points: 1000, MaxStamps: 8})
	ctx := context.Background()

	_, err := svc.Redeem(ctx, "alice", "gold-bar")
	assert.ErrorIs(t, err, apperror.ErrRewardNotFound)

	_, err = svc.Redeem(ctx, "alice", "tumbler")
	assert.ErrorIs(t, err, apperror.ErrInsufficientPoints)

	_, err = svc.Redeem(ctx, "alice", "free-latte")
	require.NoError(t, err)
	_, err = svc.Redeem(ctx, "alice", "free-latte")
	assert.ErrorIs(t, err, apperror.ErrAlreadyRedeemed)
	assert.Equal(t, apperror.KindState, apperror.KindOf(err))

	m, err := loyaltyService.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(500), m.Account.Points)
}

func TestRedeemRollsBack(t *testing.T) {
	svc, loyaltyService, store := newService(t, loyalty.Account{Points: 600, MaxStamps: 8})
	ctx := context.Background()

	store.FailNext("AppendHistory", errors.New("write timeout"))
	_, err := svc.Redeem(ctx, "alice", "free-latte")
	assert.ErrorIs(t, err, apperror.ErrStoreFailure)

	m, err := loyaltyService.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(600), m.Account.Points)

	catalog, err := svc.Catalog(ctx, "alice")
	require.NoError(t, err)
	for _, r := range catalog {
		assert.False(t, r.Redeemed, r.ID)
	}

	// the reward is still available afterwards
	_, err = svc.Redeem(ctx, "alice", "free-latte")
	assert.NoError(t, err)
}

func TestRedeemStampCard(t *testing.T) {
	svc, _, _ := newService(t, loyalty.Account{Stamps: 7, MaxStamps: 8})
	ctx := context.Background()

	_, err := svc.RedeemStampCard(ctx, "alice")
	assert.ErrorIs(t, err, apperror.ErrInsufficientStamps)

	svc, _, _ = newService(t, loyalty.Account{Stamps: 8, MaxStamps: 8, Vouchers: 1})
	m, err := svc.RedeemStampCard(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Account.Stamps)
	assert.Equal(t, 2, m.Account.Vouchers)

	history, err := svc.History(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(0), history[0].Delta)
}
