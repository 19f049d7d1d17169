// internal/infrastructure/memory/store.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/your-org/coffee-backend/internal/domain/cart"
	"github.com/your-org/coffee-backend/internal/domain/loyalty"
	"github.com/your-org/coffee-backend/internal/domain/menu"
	"github.com/your-org/coffee-backend/internal/domain/order"
	"github.com/your-org/coffee-backend/internal/domain/reward"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
)

// Store keeps every aggregate in process memory. It backs DB_DRIVER=memory and
// the service tests. Writes made inside WithinTransaction are undone if the
// transaction fails.
type Store struct {
	mu sync.RWMutex

	coffees     map[string]menu.Coffee
	carts       map[string][]cart.Item
	members     map[string]loyalty.Member
	orders      map[string]*order.Order
	rewards     map[string]reward.Reward
	redemptions map[string]map[string]time.Time
	history     []reward.HistoryEntry

	failures map[string]error
	now      func() time.Time
}

// New returns a store seeded with the default menu and reward catalogue
func New() *Store {
	s := &Store{
		coffees:     make(map[string]menu.Coffee),
		carts:       make(map[string][]cart.Item),
		members:     make(map[string]loyalty.Member),
		orders:      make(map[string]*order.Order),
		rewards:     make(map[string]reward.Reward),
		redemptions: make(map[string]map[string]time.Time),
		failures:    make(map[string]error),
		now:         time.Now,
	}
	for _, c := range menu.DefaultMenu() {
		s.PutCoffee(c)
	}
	for _, r := range reward.DefaultCatalog() {
		s.PutReward(r)
	}
	return s
}

// PutCoffee adds or replaces a menu entry
func (s *Store) PutCoffee(c menu.Coffee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coffees[c.ID] = c
}

// PutReward adds or replaces a catalogue entry
func (s *Store) PutReward(r reward.Reward) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Redeemed = false
	s.rewards[r.ID] = r
}

// FailNext makes the next call of op return err. Ops are named after the
// store methods, e.g. "InsertOrder", "SaveMember", "AppendHistory".
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// Menu returns the menu.Store view
func (s *Store) Menu() *MenuStore { return &MenuStore{s} }

// Carts returns the cart.Store view
func (s *Store) Carts() *CartStore { return &CartStore{s} }

// Members returns the loyalty.Store view
func (s *Store) Members() *MemberStore { return &MemberStore{s} }

// Orders returns the order.Store view
func (s *Store) Orders() *OrderStore { return &OrderStore{s} }

// Rewards returns the reward.Store view
func (s *Store) Rewards() *RewardStore { return &RewardStore{s} }

// must be called with mu held
func (s *Store) injected(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

type MenuStore struct{ s *Store }

func (m *MenuStore) ListCoffees(ctx context.Context) ([]menu.Coffee, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	coffees := make([]menu.Coffee, 0, len(m.s.coffees))
	for _, c := range m.s.coffees {
		coffees = append(coffees, c)
	}
	sort.Slice(coffees, func(i, j int) bool {
		if coffees[i].SortOrder != coffees[j].SortOrder {
			return coffees[i].SortOrder < coffees[j].SortOrder
		}
		return coffees[i].ID < coffees[j].ID
	})
	return coffees, nil
}

func (m *MenuStore) GetCoffee(ctx context.Context, id string) (*menu.Coffee, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	c, ok := m.s.coffees[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type CartStore struct{ s *Store }

func (c *CartStore) Load(ctx context.Context, customerID string) ([]cart.Item, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if err := c.s.injected("LoadCart"); err != nil {
		return nil, err
	}
	return append([]cart.Item(nil), c.s.carts[customerID]...), nil
}

func (c *CartStore) Save(ctx context.Context, customerID string, items []cart.Item) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if err := c.s.injected("SaveCart"); err != nil {
		return err
	}
	prev, had := c.s.carts[customerID]
	c.s.carts[customerID] = append([]cart.Item(nil), items...)
	record(ctx, func() {
		if had {
			c.s.carts[customerID] = prev
		} else {
			delete(c.s.carts, customerID)
		}
	})
	return nil
}

func (c *CartStore) Clear(ctx context.Context, customerID string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if err := c.s.injected("ClearCart"); err != nil {
		return err
	}
	prev, had := c.s.carts[customerID]
	delete(c.s.carts, customerID)
	record(ctx, func() {
		if had {
			c.s.carts[customerID] = prev
		}
	})
	return nil
}

type MemberStore struct{ s *Store }

func (m *MemberStore) Load(ctx context.Context, customerID string) (*loyalty.Member, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if err := m.s.injected("LoadMember"); err != nil {
		return nil, err
	}
	member, ok := m.s.members[customerID]
	if !ok {
		return nil, nil
	}
	return &member, nil
}

func (m *MemberStore) Save(ctx context.Context, member *loyalty.Member) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if err := m.s.injected("SaveMember"); err != nil {
		return err
	}
	now := m.s.now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now

	prev, had := m.s.members[member.ID]
	m.s.members[member.ID] = *member
	record(ctx, func() {
		if had {
			m.s.members[member.ID] = prev
		} else {
			delete(m.s.members, member.ID)
		}
	})
	return nil
}

type OrderStore struct{ s *Store }

func (o *OrderStore) Insert(ctx context.Context, ord *order.Order) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	if err := o.s.injected("InsertOrder"); err != nil {
		return err
	}
	id := ord.ID
	o.s.orders[id] = ord.Clone()
	record(ctx, func() { delete(o.s.orders, id) })
	return nil
}

func (o *OrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()

	ord, ok := o.s.orders[id]
	if !ok {
		return nil, nil
	}
	return ord.Clone(), nil
}

func (o *OrderStore) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	if err := o.s.injected("UpdateStatus"); err != nil {
		return err
	}
	ord, ok := o.s.orders[id]
	if !ok {
		return apperror.NotFound(apperror.CodeOrderNotFound, "order %q not found", id)
	}
	prev, prevUpdated := ord.Status, ord.UpdatedAt
	ord.Status = status
	ord.UpdatedAt = o.s.now().UTC()
	record(ctx, func() {
		ord.Status = prev
		ord.UpdatedAt = prevUpdated
	})
	return nil
}

func (o *OrderStore) ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()

	var orders []order.Order
	for _, ord := range o.s.orders {
		if ord.CustomerID == customerID {
			orders = append(orders, *ord.Clone())
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
	return orders, nil
}

type RewardStore struct{ s *Store }

func (r *RewardStore) ListRewards(ctx context.Context, customerID string) ([]reward.Reward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	redeemed := r.s.redemptions[customerID]
	rewards := make([]reward.Reward, 0, len(r.s.rewards))
	for _, rw := range r.s.rewards {
		_, rw.Redeemed = redeemed[rw.ID]
		rewards = append(rewards, rw)
	}
	sort.Slice(rewards, func(i, j int) bool {
		if rewards[i].SortOrder != rewards[j].SortOrder {
			return rewards[i].SortOrder < rewards[j].SortOrder
		}
		return rewards[i].ID < rewards[j].ID
	})
	return rewards, nil
}

func (r *RewardStore) MarkRedeemed(ctx context.Context, customerID, rewardID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("MarkRedeemed"); err != nil {
		return err
	}
	if _, ok := r.s.rewards[rewardID]; !ok {
		return apperror.NotFound(apperror.CodeRewardNotFound, "reward %q not found", rewardID)
	}
	if _, done := r.s.redemptions[customerID][rewardID]; done {
		return apperror.State(apperror.CodeAlreadyRedeemed, "reward %q already redeemed", rewardID)
	}
	if r.s.redemptions[customerID] == nil {
		r.s.redemptions[customerID] = make(map[string]time.Time)
	}
	r.s.redemptions[customerID][rewardID] = r.s.now().UTC()
	record(ctx, func() { delete(r.s.redemptions[customerID], rewardID) })
	return nil
}

func (r *RewardStore) AppendHistory(ctx context.Context, entry *reward.HistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("AppendHistory"); err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.s.now().UTC()
	}
	r.s.history = append(r.s.history, *entry)
	id := entry.ID
	record(ctx, func() {
		for i := len(r.s.history) - 1; i >= 0; i-- {
			if r.s.history[i].ID == id {
				r.s.history = append(r.s.history[:i], r.s.history[i+1:]...)
				return
			}
		}
	})
	return nil
}

// ListHistory returns entries newest first
func (r *RewardStore) ListHistory(ctx context.Context, customerID string) ([]reward.HistoryEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var entries []reward.HistoryEntry
	for i := len(r.s.history) - 1; i >= 0; i-- {
		if r.s.history[i].CustomerID == customerID {
			entries = append(entries, r.s.history[i])
		}
	}
	return entries, nil
}
