package loyalty

import (
	"context"
	"errors"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
	"github.com/your-org/coffee-backend/internal/pkg/keylock"
)

type mapStore struct {
	members map[string]Member
	err     error
}

func (m *mapStore) Load(ctx context.Context, customerID string) (*Member, error) {
	if m.err != nil {
		return nil, m.err
	}
	member, ok := m.members[customerID]
	if !ok {
		return nil, nil
	}
	return &member, nil
}

func (m *mapStore) Save(ctx context.Context, member *Member) error {
	if m.err != nil {
		return m.err
	}
	m.members[member.ID] = *member
	return nil
}

func newTestService() (*Service, *mapStore) {
	store := &mapStore{members: make(map[string]Member)}
	log, _ := logtest.NewNullLogger()
	return NewService(store, keylock.New(), log), store
}

func TestGetCreatesFreshMember(t *testing.T) {
	svc, store := newTestService()

	member, err := svc.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", member.ID)
	assert.Equal(t, NewAccount(), member.Account)
	assert.Empty(t, store.members, "Get must not persist")
}

func TestSaveAndReload(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	member := NewMember("alice")
	member.Account.Points = 1200
	require.NoError(t, svc.Save(ctx, member))

	reloaded, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, TierElevated, reloaded.Account.Tier())
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	svc, store := newTestService()
	store.err = errors.New("timeout")

	_, err := svc.Get(context.Background(), "alice")
	assert.ErrorIs(t, err, apperror.ErrStoreFailure)
}

func TestUpdateProfilePublishes(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	updates, cancel := svc.Subscribe("alice")
	defer cancel()

	name, address := "Alice", "  12 Bean Street "
	member, err := svc.UpdateProfile(ctx, "alice", &UpdateProfileRequest{Name: &name, Address: &address})
	require.NoError(t, err)
	assert.Equal(t, "12 Bean Street", member.Address)

	select {
	case got := <-updates:
		assert.Equal(t, "Alice", got.Name)
	case <-time.After(time.Second):
		t.Fatal("no member update published")
	}

	blank := "   "
	_, err = svc.UpdateProfile(ctx, "alice", &UpdateProfileRequest{Address: &blank})
	assert.ErrorIs(t, err, apperror.ErrInvalidAddress)
}

func TestSummary(t *testing.T) {
	member := NewMember("alice")
	member.Account.Points = 1500
	member.Account.Stamps = 8

	s := member.Summary()
	assert.Equal(t, TierElevated, s.Tier)
	assert.Equal(t, "1.5", s.Multiplier)
	assert.True(t, s.CardRedeemable)
}
