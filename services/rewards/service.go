package rewards

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loyalty-ledger/pkg/db/option"
	"loyalty-ledger/pkg/db/pagination"
	"loyalty-ledger/pkg/repository"
	"loyalty-ledger/services/notify"
)

// Notifier receives ledger events after a mutation has committed. Delivery is
// fire-and-forget; implementations must never block or fail the caller.
type Notifier interface {
	PointsUpdated(userID string, totalPoints int64)
	RewardRedeemed(userID string, reward notify.RedemptionEvent)
}

// NoopNotifier discards all events.
type NoopNotifier struct{}

func (NoopNotifier) PointsUpdated(string, int64) {}

func (NoopNotifier) RewardRedeemed(string, notify.RedemptionEvent) {}

var timestampSort = option.QuerySortBy{
	SortBy:  "timestamp",
	OrderBy: "desc",
	Allow: map[string]bool{
		"timestamp": true,
	},
}

type Service struct {
	db       *gorm.DB
	node     *snowflake.Node
	tier     TierResolver
	notifier Notifier

	users        repository.Repository[User]
	transactions repository.Repository[Transaction]
	balances     repository.Repository[RewardBalance]
	redemptions  repository.Repository[Redemption]
}

type ServiceParams struct {
	fx.In
	DB       *gorm.DB
	Node     *snowflake.Node
	Tier     TierResolver
	Notifier Notifier
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		node:     p.Node,
		tier:     p.Tier,
		notifier: p.Notifier,

		users:        repository.ProvideStore[User](p.DB),
		transactions: repository.ProvideStore[Transaction](p.DB),
		balances:     repository.ProvideStore[RewardBalance](p.DB),
		redemptions:  repository.ProvideStore[Redemption](p.DB),
	}
}

func (s *Service) resolveUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.users.FindOne(ctx, &User{ID: userID})
	if err != nil {
		zap.L().Error("failed to query user", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, errUserNotFound(userID)
	}
	return user, nil
}

// GetBalance returns the user's current point total and display multiplier.
// Reading never materializes a balance row.
func (s *Service) GetBalance(ctx context.Context, userID string) (*BalanceSummary, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance, err := s.balances.FindOne(ctx, &RewardBalance{UserID: userID})
	if err != nil {
		zap.L().Error("failed to query balance", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	var totalPoints int64
	if balance != nil {
		totalPoints = balance.TotalPoints
	}

	return &BalanceSummary{
		TotalPoints: totalPoints,
		Multiplier:  s.tier.Multiplier(user),
	}, nil
}

// GetTransactionHistory returns the user's transactions, most recent first.
func (s *Service) GetTransactionHistory(ctx context.Context, userID string, p pagination.Pagination) (*TransactionHistory, error) {
	if _, err := s.resolveUser(ctx, userID); err != nil {
		return nil, err
	}

	p = p.Normalize()

	transactions, err := s.transactions.Find(ctx, &Transaction{UserID: userID},
		option.WithSortBy(timestampSort),
		option.WithSkip(p.Skip()),
		option.WithLimit(p.Limit),
	)
	if err != nil {
		zap.L().Error("failed to query transactions", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	total, err := s.transactions.Count(ctx, &Transaction{UserID: userID})
	if err != nil {
		return nil, err
	}

	return &TransactionHistory{
		Transactions: transactions,
		Pagination:   pagination.BuildPageInfo(p, total),
	}, nil
}

// AddPoints records a point-earning transaction and credits the balance in a
// single database transaction. The balance row is upserted atomically so
// concurrent credits for one user cannot lose updates.
func (s *Service) AddPoints(ctx context.Context, userID string, points int64, category string, amount float64) (*AddPointsResult, error) {
	if points < 1 {
		return nil, errInvalidRequest("points", "must be a positive integer")
	}
	if category == "" {
		return nil, errInvalidRequest("category", "must not be empty")
	}

	if _, err := s.resolveUser(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &Transaction{
		ID:           s.node.Generate().String(),
		UserID:       userID,
		Amount:       amount,
		Category:     category,
		PointsEarned: points,
		Timestamp:    now,
	}

	var newBalance int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.transactions.WithTrx(tx).Create(ctx, record); err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total_points": gorm.Expr("total_points + ?", points),
				"updated_at":   now,
			}),
		}).Create(&RewardBalance{UserID: userID, TotalPoints: points, UpdatedAt: now}).Error; err != nil {
			return err
		}

		balance, err := s.balances.WithTrx(tx).FindOne(ctx, &RewardBalance{UserID: userID})
		if err != nil {
			return err
		}
		newBalance = balance.TotalPoints

		return nil
	})
	if err != nil {
		zap.L().Error("failed to add points", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.notifier.PointsUpdated(userID, newBalance)

	return &AddPointsResult{
		Transaction: record,
		NewBalance:  newBalance,
	}, nil
}

// RedeemPoints exchanges points for a reward. The balance decrement is guarded
// by the balance itself (total_points >= requested) and committed together
// with the redemption record, so the counter can never go negative and no
// orphan redemption can exist. A failed attempt writes nothing, not even a
// zero-balance row.
func (s *Service) RedeemPoints(ctx context.Context, userID, rewardType string, pointsToRedeem int64) (*RedemptionResult, error) {
	if pointsToRedeem < 1 {
		return nil, errInvalidRequest("pointsToRedeem", "must be a positive integer")
	}
	if rewardType == "" {
		return nil, errInvalidRequest("rewardType", "must not be empty")
	}

	if _, err := s.resolveUser(ctx, userID); err != nil {
		return nil, err
	}

	var result *RedemptionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		res := tx.Model(&RewardBalance{}).
			Where("user_id = ? AND total_points >= ?", userID, pointsToRedeem).
			Updates(map[string]any{
				"total_points": gorm.Expr("total_points - ?", pointsToRedeem),
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			balance, err := s.balances.WithTrx(tx).FindOne(ctx, &RewardBalance{UserID: userID})
			if err != nil {
				return err
			}
			var available int64
			if balance != nil {
				available = balance.TotalPoints
			}
			return errInsufficientPoints(pointsToRedeem, available)
		}

		redemption := &Redemption{
			ID:             s.node.Generate().String(),
			UserID:         userID,
			PointsRedeemed: pointsToRedeem,
			RewardType:     rewardType,
			Timestamp:      now,
		}
		if err := s.redemptions.WithTrx(tx).Create(ctx, redemption); err != nil {
			return err
		}

		balance, err := s.balances.WithTrx(tx).FindOne(ctx, &RewardBalance{UserID: userID})
		if err != nil {
			return err
		}

		result = &RedemptionResult{
			ID:              redemption.ID,
			PointsRedeemed:  redemption.PointsRedeemed,
			RewardType:      redemption.RewardType,
			Timestamp:       redemption.Timestamp,
			RemainingPoints: balance.TotalPoints,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PointsUpdated(userID, result.RemainingPoints)
	s.notifier.RewardRedeemed(userID, notify.RedemptionEvent{
		ID:              result.ID,
		PointsRedeemed:  result.PointsRedeemed,
		RewardType:      result.RewardType,
		Timestamp:       result.Timestamp,
		RemainingPoints: result.RemainingPoints,
	})

	return result, nil
}

// CreateUser registers a user. Creating an existing ID is an idempotent no-op
// returning the stored record.
func (s *Service) CreateUser(ctx context.Context, id, name, email string) (*CreateUserResult, error) {
	existing, err := s.users.FindOne(ctx, &User{ID: id})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &CreateUserResult{Created: false, User: existing}, nil
	}

	user := &User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		zap.L().Error("failed to create user", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	return &CreateUserResult{Created: true, User: user}, nil
}

// ListUsers returns every user record.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.users.Find(ctx, &User{})
}

// ListBalances returns every reward balance record.
func (s *Service) ListBalances(ctx context.Context) ([]*RewardBalance, error) {
	return s.balances.Find(ctx, &RewardBalance{})
}

// ListTransactions returns all transactions, most recent first.
func (s *Service) ListTransactions(ctx context.Context) ([]*Transaction, error) {
	return s.transactions.Find(ctx, &Transaction{}, option.WithSortBy(timestampSort))
}

// ListRedemptions returns all redemptions, most recent first.
func (s *Service) ListRedemptions(ctx context.Context) ([]*Redemption, error) {
	return s.redemptions.Find(ctx, &Redemption{}, option.WithSortBy(timestampSort))
}

// GetDatabaseSummary aggregates record counts and point totals across all
// collections.
func (s *Service) GetDatabaseSummary(ctx context.Context) (*DatabaseSummary, error) {
	summary := &DatabaseSummary{}

	var err error
	if summary.TotalUsers, err = s.users.Count(ctx, &User{}); err != nil {
		return nil, err
	}
	if summary.TotalRewardRecords, err = s.balances.Count(ctx, &RewardBalance{}); err != nil {
		return nil, err
	}
	if summary.TotalTransactions, err = s.transactions.Count(ctx, &Transaction{}); err != nil {
		return nil, err
	}
	if summary.TotalRedemptions, err = s.redemptions.Count(ctx, &Redemption{}); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&RewardBalance{}).
		Select("COALESCE(SUM(total_points), 0)").
		Scan(&summary.TotalPointsInSystem).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&Redemption{}).
		Select("COALESCE(SUM(points_redeemed), 0)").
		Scan(&summary.TotalPointsRedeemed).Error; err != nil {
		return nil, err
	}

	summary.NetPointsAvailable = summary.TotalPointsInSystem - summary.TotalPointsRedeemed

	return summary, nil
}
