package rewards

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"loyalty-ledger/pkg/middleware"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	svc, _, _ := newTestService(t)

	router := gin.New()
	router.Use(middleware.Error())
	NewHandler(svc).RegisterRoutes(router)

	return router, svc
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestGetPointsEndpoint(t *testing.T) {
	router, svc := newTestRouter(t)
	createTestUser(t, svc, "user123", "john.doe@premium.example.com")

	_, err := svc.AddPoints(context.Background(), "user123", 75, "shopping", 150)
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodGet, "/rewards/points/user123", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, float64(75), body["totalPoints"])
	require.Equal(t, 1.5, body["multiplier"])
}

func TestGetPointsEndpointUnknownUser(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/rewards/points/nobody", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "NOT_FOUND", errBody["code"])
}

func TestGetTransactionsEndpoint(t *testing.T) {
	router, svc := newTestRouter(t)
	createTestUser(t, svc, "user123", "john.doe@example.com")

	for i := 0; i < 7; i++ {
		_, err := svc.AddPoints(context.Background(), "user123", 10, "dining", 25)
		require.NoError(t, err)
	}

	rec := doRequest(t, router, http.MethodGet, "/rewards/transactions/user123?page=2&limit=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	transactions, ok := body["transactions"].([]any)
	require.True(t, ok)
	require.Len(t, transactions, 3)

	page, ok := body["pagination"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(2), page["page"])
	require.Equal(t, float64(3), page["limit"])
	require.Equal(t, float64(7), page["total"])
	require.Equal(t, float64(3), page["pages"])
}

func TestRedeemEndpoint(t *testing.T) {
	router, svc := newTestRouter(t)
	createTestUser(t, svc, "user123", "john.doe@example.com")

	_, err := svc.AddPoints(context.Background(), "user123", 600, "shopping", 1200)
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodPost, "/rewards/redeem/user123", gin.H{
		"rewardType":     "voucher",
		"pointsToRedeem": 500,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "Reward redeemed successfully", body["message"])

	redemption, ok := body["redemption"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(500), redemption["pointsRedeemed"])
	require.Equal(t, "voucher", redemption["rewardType"])
	require.Equal(t, float64(100), redemption["remainingPoints"])
}

func TestRedeemEndpointInsufficientPoints(t *testing.T) {
	router, svc := newTestRouter(t)
	createTestUser(t, svc, "user123", "john.doe@example.com")

	_, err := svc.AddPoints(context.Background(), "user123", 100, "shopping", 200)
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodPost, "/rewards/redeem/user123", gin.H{
		"rewardType":     "cashback",
		"pointsToRedeem": 1000,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "BAD_REQUEST", errBody["code"])
	require.Equal(t, "Insufficient points for redemption", errBody["message"])
}

func TestRedeemEndpointMissingFields(t *testing.T) {
	router, svc := newTestRouter(t)
	createTestUser(t, svc, "user123", "john.doe@example.com")

	rec := doRequest(t, router, http.MethodPost, "/rewards/redeem/user123", gin.H{
		"rewardType": "voucher",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/rewards/redeem/user123", gin.H{
		"rewardType":     "voucher",
		"pointsToRedeem": -5,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptionsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/rewards/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var options []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	require.Len(t, options, 3)
	require.Equal(t, "cashback", options[0]["type"])
	require.Equal(t, float64(1000), options[0]["pointsRequired"])
	require.Equal(t, "gift_card", options[2]["type"])
}

func TestAddPointsEndpoint(t *testing.T) {
	router, svc := newTestRouter(t)
	createTestUser(t, svc, "user123", "john.doe@example.com")

	rec := doRequest(t, router, http.MethodPost, "/rewards/add-points/user123", gin.H{
		"points":   40,
		"category": "travel",
		"amount":   99.5,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "Points added successfully", body["message"])
	require.Equal(t, float64(40), body["newBalance"])

	transaction, ok := body["transaction"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(40), transaction["pointsEarned"])
	require.Equal(t, "travel", transaction["category"])
}

func TestAddPointsEndpointMissingFields(t *testing.T) {
	router, svc := newTestRouter(t)
	createTestUser(t, svc, "user123", "john.doe@example.com")

	rec := doRequest(t, router, http.MethodPost, "/rewards/add-points/user123", gin.H{
		"points": 40,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUserEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	payload := gin.H{"id": "user999", "name": "New User", "email": "new@example.com"}

	rec := doRequest(t, router, http.MethodPost, "/rewards/create-user", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User created successfully", decodeBody(t, rec)["message"])

	rec = doRequest(t, router, http.MethodPost, "/rewards/create-user", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User already exists", decodeBody(t, rec)["message"])
}

func TestAdminEndpoints(t *testing.T) {
	router, svc := newTestRouter(t)
	createTestUser(t, svc, "user123", "john.doe@example.com")
	createTestUser(t, svc, "user456", "jane.smith@example.com")

	_, err := svc.AddPoints(context.Background(), "user123", 120, "shopping", 240)
	require.NoError(t, err)
	_, err = svc.RedeemPoints(context.Background(), "user123", "voucher", 20)
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodGet, "/rewards/admin/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(2), decodeBody(t, rec)["count"])

	rec = doRequest(t, router, http.MethodGet, "/rewards/admin/rewards", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), decodeBody(t, rec)["count"])

	rec = doRequest(t, router, http.MethodGet, "/rewards/admin/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), decodeBody(t, rec)["count"])

	rec = doRequest(t, router, http.MethodGet, "/rewards/admin/redemptions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), decodeBody(t, rec)["count"])

	rec = doRequest(t, router, http.MethodGet, "/rewards/admin/database-summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	summary, ok := body["summary"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(2), summary["totalUsers"])
	require.Equal(t, float64(100), summary["netPointsAvailable"])

	collections, ok := body["collections"].(map[string]any)
	require.True(t, ok)
	users, ok := collections["users"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(2), users["count"])
}
