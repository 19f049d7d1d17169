// internal/infrastructure/database/postgres/member_store.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/coffee-backend/internal/domain/loyalty"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MemberStore persists loyalty members
type MemberStore struct {
	db *gorm.DB
}

func NewMemberStore(db *gorm.DB) *MemberStore {
	return &MemberStore{db: db}
}

func (s *MemberStore) Load(ctx context.Context, customerID string) (*loyalty.Member, error) {
	var member loyalty.Member
	err := conn(ctx, s.db).Where("id = ?", customerID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	return &member, nil
}

// Save inserts the member or overwrites its profile and account
func (s *MemberStore) Save(ctx context.Context, member *loyalty.Member) error {
	err := conn(ctx, s.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "address", "points", "stamps", "max_stamps", "vouchers", "updated_at",
		}),
	}).Create(member).Error
	if err != nil {
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}
