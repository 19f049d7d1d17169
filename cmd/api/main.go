// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/coffee-backend/internal/config"
	"github.com/your-org/coffee-backend/internal/domain/cart"
	"github.com/your-org/coffee-backend/internal/domain/loyalty"
	"github.com/your-org/coffee-backend/internal/domain/menu"
	"github.com/your-org/coffee-backend/internal/domain/order"
	"github.com/your-org/coffee-backend/internal/domain/pricing"
	"github.com/your-org/coffee-backend/internal/domain/reward"
	"github.com/your-org/coffee-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/coffee-backend/internal/infrastructure/database/redis"
	"github.com/your-org/coffee-backend/internal/infrastructure/memory"
	"github.com/your-org/coffee-backend/internal/interfaces/http"
	"github.com/your-org/coffee-backend/internal/interfaces/http/routes"
	"github.com/your-org/coffee-backend/internal/pkg/keylock"
	"github.com/your-org/coffee-backend/internal/pkg/logger"
	"github.com/your-org/coffee-backend/internal/pkg/txn"
)

// stores is the persistence the services run on
type stores struct {
	menu    menu.Store
	carts   cart.Store
	members loyalty.Store
	orders  order.Store
	rewards reward.Store
	tx      txn.Transactor
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Logging)
	log.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	var (
		st          stores
		redisClient *goredis.Client
	)
	checks := map[string]http.HealthChecker{}

	if cfg.UsesMemoryStore() {
		log.Warn("DB_DRIVER=memory: carts, orders and balances are lost on restart")
		st = memoryStores(memory.New())
	} else {
		db, err := postgres.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		rdb, err := redis.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()

		migrate(cfg, log, postgres.NewMigration(db.GetDB(), log))

		st = stores{
			menu:    postgres.NewMenuStore(db.GetDB()),
			carts:   redis.NewCartStore(rdb, cfg.Shop.CartTTL),
			members: postgres.NewMemberStore(db.GetDB()),
			orders:  postgres.NewOrderStore(db.GetDB()),
			rewards: postgres.NewRewardStore(db.GetDB()),
			tx:      postgres.NewTransactor(db.GetDB()),
		}
		redisClient = rdb.GetClient()
		checks["database"] = db
		checks["redis"] = rdb
	}

	log.Info("✅ All systems operational!")

	server := http.NewServer(cfg, log, newServices(cfg, log, st), redisClient, checks)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Info("✅ Server shutdown completed")
}

func memoryStores(store *memory.Store) stores {
	return stores{
		menu:    store.Menu(),
		carts:   store.Carts(),
		members: store.Members(),
		orders:  store.Orders(),
		rewards: store.Rewards(),
		tx:      store,
	}
}

// migrate brings the schema up to date and seeds the menu and reward catalogue
func migrate(cfg *config.Config, log *logrus.Logger, migration *postgres.Migration) {
	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	if err := migration.CreateIndexes(); err != nil {
		log.Warnf("Index creation failed: %v", err)
	}

	// Seeding skips rows that already exist
	if err := migration.SeedInitialData(); err != nil {
		log.Warnf("Data seeding failed: %v", err)
	}

	if cfg.IsDevelopment() {
		if _, err := migration.GetTableInfo(); err != nil {
			log.Warnf("Failed to read table info: %v", err)
		}
	}
}

func newServices(cfg *config.Config, log *logrus.Logger, st stores) routes.Services {
	locks := keylock.New()
	policy := order.Policy{
		PointValue:   pricing.Money(cfg.Shop.PointValue),
		VoucherValue: pricing.Money(cfg.Shop.VoucherValue),
	}

	menuService := menu.NewService(st.menu)
	cartService := cart.NewService(st.carts, menuService, locks, pricing.Money(cfg.Shop.DeliveryFee), log.WithField("service", "cart"))
	loyaltyService := loyalty.NewService(st.members, locks, log.WithField("service", "loyalty"))

	return routes.Services{
		Menu:    menuService,
		Cart:    cartService,
		Loyalty: loyaltyService,
		Orders:  order.NewService(st.orders, st.rewards, cartService, loyaltyService, st.tx, locks, policy, log.WithField("service", "order")),
		Rewards: reward.NewService(st.rewards, loyaltyService, st.tx, locks, log.WithField("service", "reward")),
	}
}
