// internal/domain/reward/service.go
package reward

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/coffee-backend/internal/domain/loyalty"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
	"github.com/your-org/coffee-backend/internal/pkg/keylock"
	"github.com/your-org/coffee-backend/internal/pkg/txn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const stampCardLabel = "Stamp card redeemed for a voucher"

// Store persists the catalogue, per-customer redemptions and the points ledger.
// MarkRedeemed fails with AlreadyRedeemed when the pair already exists.
type Store interface {
	ListRewards(ctx context.Context, customerID string) ([]Reward, error)
	MarkRedeemed(ctx context.Context, customerID, rewardID string) error
	AppendHistory(ctx context.Context, entry *HistoryEntry) error
	ListHistory(ctx context.Context, customerID string) ([]HistoryEntry, error)
}

// Service handles reward redemption
type Service struct {
	store   Store
	loyalty *loyalty.Service
	tx      txn.Transactor
	locks   *keylock.Locker
	log     logrus.FieldLogger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewService creates a new reward service
func NewService(store Store, loyaltyService *loyalty.Service, tx txn.Transactor, locks *keylock.Locker, log logrus.FieldLogger) *Service {
	return &Service{
		store:   store,
		loyalty: loyaltyService,
		tx:      tx,
		locks:   locks,
		log:     log,
		tracer:  otel.Tracer("coffee-backend/reward"),
		now:     time.Now,
	}
}

// RedeemResult is returned after a successful redemption
type RedeemResult struct {
	Reward  Reward          `json:"reward"`
	Entry   HistoryEntry    `json:"entry"`
	Summary loyalty.Summary `json:"loyalty"`
}

// Catalog lists rewards with the customer's redeemed flags
func (s *Service) Catalog(ctx context.Context, customerID string) ([]Reward, error) {
	rewards, err := s.store.ListRewards(ctx, customerID)
	if err != nil {
		return nil, apperror.Store("failed to list rewards", err)
	}
	return rewards, nil
}

// History returns the customer's ledger, newest first
func (s *Service) History(ctx context.Context, customerID string) ([]HistoryEntry, error) {
	entries, err := s.store.ListHistory(ctx, customerID)
	if err != nil {
		return nil, apperror.Store("failed to list reward history", err)
	}
	return entries, nil
}

// Redeem spends points on a catalogue reward
func (s *Service) Redeem(ctx context.Context, customerID, rewardID string) (*RedeemResult, error) {
	ctx, span := s.tracer.Start(ctx, "reward.redeem",
		trace.WithAttributes(
			attribute.String("customer.id", customerID),
			attribute.String("reward.id", rewardID),
		),
	)
	defer span.End()

	unlock := s.locks.Lock(customerID)
	defer unlock()

	result, member, err := s.redeem(ctx, customerID, rewardID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperror.CodeOf(err)))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("reward.cost", result.Reward.Cost),
		attribute.Int64("points.balance", member.Account.Points),
	)

	s.log.WithFields(logrus.Fields{
		"customer_id": customerID,
		"reward_id":   rewardID,
		"cost":        result.Reward.Cost,
		"balance":     member.Account.Points,
	}).Info("reward redeemed")

	s.loyalty.Publish(member)
	return result, nil
}

func (s *Service) redeem(ctx context.Context, customerID, rewardID string) (*RedeemResult, *loyalty.Member, error) {
	rewards, err := s.Catalog(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	var reward *Reward
	for i := range rewards {
		if rewards[i].ID == rewardID {
			reward = &rewards[i]
			break
		}
	}
	if reward == nil {
		return nil, nil, apperror.NotFound(apperror.CodeRewardNotFound, "reward %q not found", rewardID)
	}
	if reward.Redeemed {
		return nil, nil, apperror.State(apperror.CodeAlreadyRedeemed, "reward %q already redeemed", rewardID)
	}

	member, err := s.loyalty.Get(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if err := member.Account.UseRewardPoints(reward.Cost); err != nil {
		return nil, nil, err
	}

	entry := HistoryEntry{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Delta:      -reward.Cost,
		Label:      reward.Label,
		Kind:       HistoryRedeemed,
		CreatedAt:  s.now().UTC(),
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.loyalty.Save(ctx, member); err != nil {
			return err
		}
		if err := s.store.MarkRedeemed(ctx, customerID, rewardID); err != nil {
			return apperror.Store("failed to mark reward redeemed", err)
		}
		if err := s.store.AppendHistory(ctx, &entry); err != nil {
			return apperror.Store("failed to append reward history", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, apperror.Store("redeem transaction failed", err)
	}

	reward.Redeemed = true
	return &RedeemResult{Reward: *reward, Entry: entry, Summary: member.Summary()}, member, nil
}

// RedeemStampCard trades a full stamp card for one voucher
func (s *Service) RedeemStampCard(ctx context.Context, customerID string) (*loyalty.Member, error) {
	ctx, span := s.tracer.Start(ctx, "reward.redeem_stamp_card",
		trace.WithAttributes(attribute.String("customer.id", customerID)),
	)
	defer span.End()

	unlock := s.locks.Lock(customerID)
	defer unlock()

	member, err := s.loyalty.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !member.Account.CanRedeemStampCard() {
		err := apperror.Validation(apperror.CodeInsufficientStamps,
			"stamp card not full: have %d, need %d", member.Account.Stamps, member.Summary().MaxStamps)
		span.RecordError(err)
		return nil, err
	}

	member.Account.ResetStamps()
	member.Account.AddVouchers(1)

	entry := HistoryEntry{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Label:      stampCardLabel,
		Kind:       HistoryRedeemed,
		CreatedAt:  s.now().UTC(),
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.loyalty.Save(ctx, member); err != nil {
			return err
		}
		if err := s.store.AppendHistory(ctx, &entry); err != nil {
			return apperror.Store("failed to append reward history", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperror.Store("stamp card transaction failed", err)
	}

	s.log.WithFields(logrus.Fields{
		"customer_id": customerID,
		"vouchers":    member.Account.Vouchers,
	}).Info("stamp card redeemed")

	s.loyalty.Publish(member)
	return member, nil
}
