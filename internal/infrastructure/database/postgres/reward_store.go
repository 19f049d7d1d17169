// internal/infrastructure/database/postgres/reward_store.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/your-org/coffee-backend/internal/domain/reward"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RewardStore persists the catalogue, redemptions and the points ledger
type RewardStore struct {
	db *gorm.DB
}

func NewRewardStore(db *gorm.DB) *RewardStore {
	return &RewardStore{db: db}
}

func (s *RewardStore) ListRewards(ctx context.Context, customerID string) ([]reward.Reward, error) {
	db := conn(ctx, s.db)

	var rewards []reward.Reward
	if err := db.Order("sort_order ASC, id ASC").Find(&rewards).Error; err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}

	var redeemedIDs []string
	err := db.Model(&reward.Redemption{}).
		Where("customer_id = ?", customerID).
		Pluck("reward_id", &redeemedIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}

	redeemed := make(map[string]bool, len(redeemedIDs))
	for _, id := range redeemedIDs {
		redeemed[id] = true
	}
	for i := range rewards {
		rewards[i].Redeemed = redeemed[rewards[i].ID]
	}
	return rewards, nil
}

// MarkRedeemed records the redemption. The primary key on (customer, reward)
// makes a second redemption a no-op that is reported as AlreadyRedeemed.
func (s *RewardStore) MarkRedeemed(ctx context.Context, customerID, rewardID string) error {
	db := conn(ctx, s.db)

	var count int64
	if err := db.Model(&reward.Reward{}).Where("id = ?", rewardID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up reward: %w", err)
	}
	if count == 0 {
		return apperror.NotFound(apperror.CodeRewardNotFound, "reward %q not found", rewardID)
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reward.Redemption{
		CustomerID: customerID,
		RewardID:   rewardID,
		RedeemedAt: time.Now().UTC(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to mark reward redeemed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.State(apperror.CodeAlreadyRedeemed, "reward %q already redeemed", rewardID)
	}
	return nil
}

func (s *RewardStore) AppendHistory(ctx context.Context, entry *reward.HistoryEntry) error {
	if err := conn(ctx, s.db).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append reward history: %w", err)
	}
	return nil
}

// ListHistory returns entries newest first
func (s *RewardStore) ListHistory(ctx context.Context, customerID string) ([]reward.HistoryEntry, error) {
	var entries []reward.HistoryEntry
	err := conn(ctx, s.db).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reward history: %w", err)
	}
	return entries, nil
}
