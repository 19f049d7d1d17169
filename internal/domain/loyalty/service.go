// internal/domain/loyalty/service.go
package loyalty

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
	"github.com/your-org/coffee-backend/internal/pkg/broadcast"
	"github.com/your-org/coffee-backend/internal/pkg/keylock"
)

// Store persists members. Load returns nil, nil for an unknown id.
type Store interface {
	Load(ctx context.Context, customerID string) (*Member, error)
	Save(ctx context.Context, member *Member) error
}

// Service owns member state. Writers that combine a read and a write must
// hold the customer lock from the shared Locker.
type Service struct {
	store Store
	locks *keylock.Locker
	hub   *broadcast.Hub[Member]
	log   logrus.FieldLogger
}

// NewService creates a new loyalty service
func NewService(store Store, locks *keylock.Locker, log logrus.FieldLogger) *Service {
	return &Service{
		store: store,
		locks: locks,
		hub:   broadcast.NewHub[Member](),
		log:   log,
	}
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

// Get loads a member, creating an empty one on first sight
func (s *Service) Get(ctx context.Context, customerID string) (*Member, error) {
	member, err := s.store.Load(ctx, customerID)
	if err != nil {
		return nil, apperror.Store("failed to load member", err)
	}
	if member == nil {
		return NewMember(customerID), nil
	}
	if member.Account.MaxStamps <= 0 {
		member.Account.MaxStamps = DefaultMaxStamps
	}
	return member, nil
}

// Save persists member. Inside a transaction the write joins it.
func (s *Service) Save(ctx context.Context, member *Member) error {
	if err := s.store.Save(ctx, member); err != nil {
		return apperror.Store("failed to save member", err)
	}
	return nil
}

// Publish notifies subscribers of the member's new state. Call it after the
// write has committed.
func (s *Service) Publish(member *Member) {
	s.hub.Publish(member.ID, *member)
}

// Subscribe streams member updates for customerID
func (s *Service) Subscribe(customerID string) (<-chan Member, func()) {
	return s.hub.Subscribe(customerID)
}

// UpdateProfile changes the member's name or default delivery address
func (s *Service) UpdateProfile(ctx context.Context, customerID string, req *UpdateProfileRequest) (*Member, error) {
	unlock := s.locks.Lock(customerID)
	defer unlock()

	member, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		member.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		if address == "" {
			return nil, apperror.ErrInvalidAddress
		}
		member.Address = address
	}

	if err := s.Save(ctx, member); err != nil {
		return nil, err
	}

	s.log.WithField("customer_id", customerID).Info("member profile updated")
	s.Publish(member)
	return member, nil
}
