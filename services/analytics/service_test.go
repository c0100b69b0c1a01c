package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loyalty-ledger/services/rewards"
	"loyalty-ledger/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func seedTransactions(t *testing.T, svc *Service, records []rewards.Transaction) {
	t.Helper()
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = fmt.Sprintf("tx-%d", i)
		}
		if records[i].Timestamp.IsZero() {
			records[i].Timestamp = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
		}
		require.NoError(t, svc.db.Create(&records[i]).Error)
	}
}

func TestGetRewardsDistributionEmpty(t *testing.T) {
	db := testutil.NewTestDB(t, rewards.Models()...)
	svc := NewService(ServiceParams{DB: db})

	report, err := svc.GetRewardsDistribution(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Distribution)
	require.Zero(t, report.Summary.TotalPoints)
	require.Zero(t, report.Summary.TotalTransactions)
	require.Zero(t, report.Summary.Categories)
}

func TestGetRewardsDistribution(t *testing.T) {
	db := testutil.NewTestDB(t, rewards.Models()...)
	svc := NewService(ServiceParams{DB: db})

	seedTransactions(t, svc, []rewards.Transaction{
		{UserID: "user123", Category: "shopping", PointsEarned: 50, Amount: 100},
		{UserID: "user456", Category: "shopping", PointsEarned: 40, Amount: 80},
		{UserID: "user123", Category: "dining", PointsEarned: 100, Amount: 250},
	})

	report, err := svc.GetRewardsDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Distribution, 2)

	// dining outranks shopping: 100 points in one transaction vs 90 in two
	dining := report.Distribution[0]
	require.Equal(t, "dining", dining.Category)
	require.Equal(t, int64(100), dining.TotalPoints)
	require.Equal(t, 250.0, dining.TotalAmount)
	require.Equal(t, int64(1), dining.TransactionCount)
	require.Equal(t, 100.0, dining.AveragePointsPerTransaction)

	shopping := report.Distribution[1]
	require.Equal(t, "shopping", shopping.Category)
	require.Equal(t, int64(90), shopping.TotalPoints)
	require.Equal(t, 180.0, shopping.TotalAmount)
	require.Equal(t, int64(2), shopping.TransactionCount)
	require.Equal(t, 45.0, shopping.AveragePointsPerTransaction)

	require.Equal(t, int64(190), report.Summary.TotalPoints)
	require.Equal(t, int64(3), report.Summary.TotalTransactions)
	require.Equal(t, 2, report.Summary.Categories)
}

func TestGetRewardsDistributionSingleCategory(t *testing.T) {
	db := testutil.NewTestDB(t, rewards.Models()...)
	svc := NewService(ServiceParams{DB: db})

	seedTransactions(t, svc, []rewards.Transaction{
		{UserID: "user123", Category: "travel", PointsEarned: 30, Amount: 60},
		{UserID: "user123", Category: "travel", PointsEarned: 70, Amount: 140},
	})

	report, err := svc.GetRewardsDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Distribution, 1)
	require.Equal(t, "travel", report.Distribution[0].Category)
	require.Equal(t, 50.0, report.Distribution[0].AveragePointsPerTransaction)
	require.Equal(t, 1, report.Summary.Categories)
}
