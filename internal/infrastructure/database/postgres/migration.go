// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/coffee-backend/internal/domain/loyalty"
	"github.com/your-org/coffee-backend/internal/domain/menu"
	"github.com/your-org/coffee-backend/internal/domain/order"
	"github.com/your-org/coffee-backend/internal/domain/reward"
	"gorm.io/gorm"
)

// tables in dependency order
var tables = []string{
	"coffees",
	"members",
	"orders",
	"order_items",
	"rewards",
	"reward_redemptions",
	"reward_history",
}

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log logrus.FieldLogger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("🔄 Running database auto-migrations...")

	models := []interface{}{
		// Menu
		&menu.Coffee{},

		// Loyalty
		&loyalty.Member{},

		// Orders
		&order.Order{},
		&order.LineItem{},

		// Rewards
		&reward.Reward{},
		&reward.Redemption{},
		&reward.HistoryEntry{},
	}

	for _, model := range models {
		m.log.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	m.log.Info("🔄 Creating additional database indexes...")

	indexes := []string{
		// Menu indexes
		"CREATE INDEX IF NOT EXISTS idx_coffees_available_sort ON coffees(is_available, sort_order)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_created ON orders(customer_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",

		// Order items indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order_position ON order_items(order_id, position)",

		// Reward indexes
		"CREATE INDEX IF NOT EXISTS idx_rewards_sort_order ON rewards(sort_order)",
		"CREATE INDEX IF NOT EXISTS idx_reward_history_customer_created ON reward_history(customer_id, created_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.log.WithError(err).Warn("⚠️ Failed to create index")
			failCount++
		} else {
			successCount++
		}
	}

	m.log.Infof("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts the menu and the reward catalogue if they are missing
func (m *Migration) SeedInitialData() error {
	m.log.Info("🌱 Seeding initial data...")

	if err := m.seedMenu(); err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}

	if err := m.seedRewards(); err != nil {
		return fmt.Errorf("failed to seed rewards: %w", err)
	}

	m.log.Info("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedMenu() error {
	for _, coffee := range menu.DefaultMenu() {
		var existing menu.Coffee
		err := m.db.Where("id = ?", coffee.ID).First(&existing).Error
		if err == nil {
			m.log.Debugf("⏭️ Coffee already exists: %s", coffee.Name)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := m.db.Create(&coffee).Error; err != nil {
			return err
		}
		m.log.Debugf("✅ Created coffee: %s", coffee.Name)
	}
	return nil
}

func (m *Migration) seedRewards() error {
	for _, r := range reward.DefaultCatalog() {
		var existing reward.Reward
		err := m.db.Where("id = ?", r.ID).First(&existing).Error
		if err == nil {
			m.log.Debugf("⏭️ Reward already exists: %s", r.Label)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := m.db.Create(&r).Error; err != nil {
			return err
		}
		m.log.Debugf("✅ Created reward: %s", r.Label)
	}
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	m.log.Warn("⚠️ WARNING: Dropping all database tables...")

	for i := len(tables) - 1; i >= 0; i-- {
		if err := m.db.Migrator().DropTable(tables[i]); err != nil {
			m.log.WithError(err).Warnf("⚠️ Failed to drop table %s", tables[i])
		} else {
			m.log.Debugf("🗑️ Dropped table: %s", tables[i])
		}
	}

	m.log.Info("✅ All tables dropped successfully")
	return nil
}

// GetTableInfo logs the row count of every table and returns the counts
func (m *Migration) GetTableInfo() (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	var total int64

	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = count
		total += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}
		m.log.Infof("%s %-20s | %d records", status, table, count)
	}

	m.log.Infof("📈 Total records across all tables: %d", total)
	return counts, nil
}
