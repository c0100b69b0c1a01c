package main

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"loyalty-ledger/pkg/config"
	"loyalty-ledger/pkg/db"
	"loyalty-ledger/pkg/logger"
	"loyalty-ledger/services/rewards"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		fx.Provide(provideSnowflakeNode),
		fx.Invoke(seed),
		fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
			return fxevent.NopLogger
		}),
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

func provideSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

type seedTransaction struct {
	userID   string
	amount   float64
	category string
	points   int64
	date     string
}

// seed wipes and repopulates the demo data set: three users, eight
// transactions and their matching balances (user123 totals 415 points).
func seed(lc fx.Lifecycle, gdb *gorm.DB, node *snowflake.Node, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			defer shutdowner.Shutdown()

			if err := gdb.AutoMigrate(rewards.Models()...); err != nil {
				return err
			}

			if err := run(ctx, gdb, node); err != nil {
				zap.L().Error("seeding failed", zap.Error(err))
				return err
			}

			zap.L().Info("database seeded")
			return nil
		},
	})
}

func run(ctx context.Context, gdb *gorm.DB, node *snowflake.Node) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range rewards.Models() {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		users := []rewards.User{
			{ID: "user123", Name: "John Doe", Email: "john.doe@example.com", CreatedAt: now},
			{ID: "user456", Name: "Jane Smith", Email: "jane.smith@example.com", CreatedAt: now},
			{ID: "user789", Name: "Bob Johnson", Email: "bob.johnson@example.com", CreatedAt: now},
		}
		if err := tx.Create(&users).Error; err != nil {
			return err
		}

		seedTransactions := []seedTransaction{
			{"user123", 100, "shopping", 50, "2024-01-15"},
			{"user123", 200, "dining", 100, "2024-01-20"},
			{"user123", 150, "travel", 75, "2024-01-25"},
			{"user123", 80, "shopping", 40, "2024-01-30"},
			{"user123", 300, "entertainment", 150, "2024-02-01"},
			{"user456", 120, "shopping", 60, "2024-01-18"},
			{"user456", 90, "dining", 45, "2024-01-22"},
			{"user789", 250, "travel", 125, "2024-01-28"},
		}

		totals := make(map[string]int64)
		transactions := make([]rewards.Transaction, 0, len(seedTransactions))
		for _, st := range seedTransactions {
			ts, err := time.Parse("2006-01-02", st.date)
			if err != nil {
				return err
			}
			transactions = append(transactions, rewards.Transaction{
				ID:           node.Generate().String(),
				UserID:       st.userID,
				Amount:       st.amount,
				Category:     st.category,
				PointsEarned: st.points,
				Timestamp:    ts,
			})
			totals[st.userID] += st.points
		}
		if err := tx.Create(&transactions).Error; err != nil {
			return err
		}

		balances := make([]rewards.RewardBalance, 0, len(totals))
		for userID, total := range totals {
			balances = append(balances, rewards.RewardBalance{
				UserID:      userID,
				TotalPoints: total,
				UpdatedAt:   now,
			})
		}
		return tx.Create(&balances).Error
	})
}
