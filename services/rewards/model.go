package rewards

import (
	"time"

	"loyalty-ledger/pkg/db/pagination"
)

type User struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	Email     string    `gorm:"column:email" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
}

// Transaction is an append-only point-earning event. Rows are never updated
// or deleted once written.
type Transaction struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	UserID       string    `gorm:"column:user_id;index" json:"userId"`
	Amount       float64   `gorm:"column:amount" json:"amount"`
	Category     string    `gorm:"column:category" json:"category"`
	PointsEarned int64     `gorm:"column:points_earned" json:"pointsEarned"`
	Timestamp    time.Time `gorm:"column:timestamp;index" json:"timestamp"`
}

// RewardBalance is the authoritative running counter for a user. It is
// materialized lazily by the first successful points mutation and never by a
// read or a failed redemption. TotalPoints can never go below zero.
type RewardBalance struct {
	UserID      string    `gorm:"column:user_id;primaryKey" json:"userId"`
	TotalPoints int64     `gorm:"column:total_points" json:"totalPoints"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (RewardBalance) TableName() string {
	return "reward_balances"
}

// Redemption records a completed exchange of points. It is written in the
// same database transaction as the balance decrement.
type Redemption struct {
	ID             string    `gorm:"column:id;primaryKey" json:"id"`
	UserID         string    `gorm:"column:user_id;index" json:"userId"`
	PointsRedeemed int64     `gorm:"column:points_redeemed" json:"pointsRedeemed"`
	RewardType     string    `gorm:"column:reward_type" json:"rewardType"`
	Timestamp      time.Time `gorm:"column:timestamp;index" json:"timestamp"`
}

// Models lists every entity for migration.
func Models() []any {
	return []any{&User{}, &Transaction{}, &RewardBalance{}, &Redemption{}}
}

type BalanceSummary struct {
	TotalPoints int64   `json:"totalPoints"`
	Multiplier  float64 `json:"multiplier"`
}

type TransactionHistory struct {
	Transactions []*Transaction      `json:"transactions"`
	Pagination   pagination.PageInfo `json:"pagination"`
}

type RedemptionResult struct {
	ID              string    `json:"id"`
	PointsRedeemed  int64     `json:"pointsRedeemed"`
	RewardType      string    `json:"rewardType"`
	Timestamp       time.Time `json:"timestamp"`
	RemainingPoints int64     `json:"remainingPoints"`
}

type AddPointsResult struct {
	Transaction *Transaction `json:"transaction"`
	NewBalance  int64        `json:"newBalance"`
}

type CreateUserResult struct {
	Created bool  `json:"created"`
	User    *User `json:"user"`
}

type RewardOption struct {
	Type           string `json:"type"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PointsRequired int64  `json:"pointsRequired"`
	Value          int64  `json:"value"`
}

type DatabaseSummary struct {
	TotalUsers          int64 `json:"totalUsers"`
	TotalRewardRecords  int64 `json:"totalRewardRecords"`
	TotalTransactions   int64 `json:"totalTransactions"`
	TotalRedemptions    int64 `json:"totalRedemptions"`
	TotalPointsInSystem int64 `json:"totalPointsInSystem"`
	TotalPointsRedeemed int64 `json:"totalPointsRedeemed"`
	NetPointsAvailable  int64 `json:"netPointsAvailable"`
}
