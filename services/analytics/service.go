package analytics

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"loyalty-ledger/services/rewards"
)

type CategoryDistribution struct {
	Category                    string  `gorm:"column:category" json:"category"`
	TotalPoints                 int64   `gorm:"column:total_points" json:"totalPoints"`
	TotalAmount                 float64 `gorm:"column:total_amount" json:"totalAmount"`
	TransactionCount            int64   `gorm:"column:transaction_count" json:"transactionCount"`
	AveragePointsPerTransaction float64 `gorm:"-" json:"averagePointsPerTransaction"`
}

type DistributionSummary struct {
	TotalPoints       int64 `json:"totalPoints"`
	TotalTransactions int64 `json:"totalTransactions"`
	Categories        int   `json:"categories"`
}

type RewardsDistribution struct {
	Distribution []CategoryDistribution `json:"distribution"`
	Summary      DistributionSummary    `json:"summary"`
}

type Service struct {
	db *gorm.DB
}

type ServiceParams struct {
	fx.In
	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{db: p.DB}
}

// GetRewardsDistribution groups the full transaction history by category.
// The report is recomputed on every call; there is no cache to invalidate.
func (s *Service) GetRewardsDistribution(ctx context.Context) (*RewardsDistribution, error) {
	distribution := make([]CategoryDistribution, 0)

	if err := s.db.WithContext(ctx).
		Model(&rewards.Transaction{}).
		Select("category, SUM(points_earned) AS total_points, SUM(amount) AS total_amount, COUNT(*) AS transaction_count").
		Group("category").
		Order("total_points DESC").
		Scan(&distribution).Error; err != nil {
		zap.L().Error("failed to aggregate rewards distribution", zap.Error(err))
		return nil, err
	}

	summary := DistributionSummary{Categories: len(distribution)}
	for i := range distribution {
		d := &distribution[i]
		if d.TransactionCount > 0 {
			d.AveragePointsPerTransaction = float64(d.TotalPoints) / float64(d.TransactionCount)
		}
		summary.TotalPoints += d.TotalPoints
		summary.TotalTransactions += d.TransactionCount
	}

	return &RewardsDistribution{
		Distribution: distribution,
		Summary:      summary,
	}, nil
}
