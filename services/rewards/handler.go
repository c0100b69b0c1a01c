package rewards

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loyalty-ledger/pkg/db/pagination"
	"loyalty-ledger/pkg/errutil"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	r := router.Group("/rewards")
	r.GET("/points/:userId", h.getPoints)
	r.GET("/transactions/:userId", h.getTransactions)
	r.POST("/redeem/:userId", h.redeem)
	r.GET("/options", h.options)
	r.POST("/add-points/:userId", h.addPoints)
	r.POST("/create-user", h.createUser)

	admin := r.Group("/admin")
	admin.GET("/users", h.listUsers)
	admin.GET("/rewards", h.listBalances)
	admin.GET("/transactions", h.listTransactions)
	admin.GET("/redemptions", h.listRedemptions)
	admin.GET("/database-summary", h.databaseSummary)
}

type redeemRequest struct {
	RewardType     string `json:"rewardType" binding:"required"`
	PointsToRedeem int64  `json:"pointsToRedeem" binding:"required,min=1"`
}

type addPointsRequest struct {
	Points   int64   `json:"points" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
}

type createUserRequest struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

func (h *Handler) getPoints(c *gin.Context) {
	balance, err := h.svc.GetBalance(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

func (h *Handler) getTransactions(c *gin.Context) {
	var p pagination.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		c.Error(errutil.ValidationFailed("invalid pagination parameters", errutil.WithErr(err)))
		return
	}

	history, err := h.svc.GetTransactionHistory(c.Request.Context(), c.Param("userId"), p)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *Handler) redeem(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.ValidationFailed("missing required fields: rewardType, pointsToRedeem", errutil.WithErr(err)))
		return
	}

	redemption, err := h.svc.RedeemPoints(c.Request.Context(), c.Param("userId"), req.RewardType, req.PointsToRedeem)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Reward redeemed successfully",
		"redemption": redemption,
	})
}

func (h *Handler) options(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.RewardOptions())
}

func (h *Handler) addPoints(c *gin.Context) {
	var req addPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.ValidationFailed("missing required fields: points, category, amount", errutil.WithErr(err)))
		return
	}

	result, err := h.svc.AddPoints(c.Request.Context(), c.Param("userId"), req.Points, req.Category, req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Points added successfully",
		"transaction": gin.H{
			"id":           result.Transaction.ID,
			"pointsEarned": result.Transaction.PointsEarned,
			"category":     result.Transaction.Category,
			"timestamp":    result.Transaction.Timestamp,
		},
		"newBalance": result.NewBalance,
	})
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.ValidationFailed("missing required fields: id, name, email", errutil.WithErr(err)))
		return
	}

	result, err := h.svc.CreateUser(c.Request.Context(), req.ID, req.Name, req.Email)
	if err != nil {
		c.Error(err)
		return
	}

	message := "User created successfully"
	if !result.Created {
		message = "User already exists"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"user":    result.User,
	})
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(users),
		"users": users,
	})
}

func (h *Handler) listBalances(c *gin.Context) {
	balances, err := h.svc.ListBalances(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(balances),
		"rewards": balances,
	})
}

func (h *Handler) listTransactions(c *gin.Context) {
	transactions, err := h.svc.ListTransactions(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":        len(transactions),
		"transactions": transactions,
	})
}

func (h *Handler) listRedemptions(c *gin.Context) {
	redemptions, err := h.svc.ListRedemptions(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       len(redemptions),
		"redemptions": redemptions,
	})
}

func (h *Handler) databaseSummary(c *gin.Context) {
	summary, err := h.svc.GetDatabaseSummary(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"collections": gin.H{
			"users":        gin.H{"count": summary.TotalUsers},
			"rewards":      gin.H{"count": summary.TotalRewardRecords},
			"transactions": gin.H{"count": summary.TotalTransactions},
			"redemptions":  gin.H{"count": summary.TotalRedemptions},
		},
	})
}
