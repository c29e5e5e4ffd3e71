package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sasa_billing/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func testToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func buildTestRouter(t *testing.T, extra map[string]string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	environ := map[string]string{
		"SUPABASE_JWT_SECRET":  testJWTSecret,
		"PAYMENT_GATEWAY_MOCK": "true",
		"LEDGER_BACKEND":       "memory",
		"LEDGER_MEMORY_USERS":  "user-1,user-2",
	}
	for k, v := range extra {
		environ[k] = v
	}
	cfg, err := config.LoadFrom(environ)
	require.NoError(t, err)

	router, cleanup, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return router
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func TestRouter_PurchaseFlow(t *testing.T) {
	r := buildTestRouter(t, nil)
	token := testToken(t, "user-1")

	w, order := do(t, r, http.MethodPost, "/payment", token, map[string]string{"action": "create_order", "plan": "pro_monthly"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(39900), order["amount"])
	assert.Equal(t, "INR", order["currency"])
	orderID, _ := order["id"].(string)
	require.NotEmpty(t, orderID)

	w, checkout := do(t, r, http.MethodPost, "/v1/mock/checkout/"+orderID, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	verify := map[string]any{
		"action":              "verify payment",
		"plan":                "pro_monthly",
		"razorpay_order_id":   checkout["razorpay_order_id"],
		"razorpay_payment_id": checkout["razorpay_payment_id"],
		"razorpay_signature":  checkout["razorpay_signature"],
	}
	w, settled := do(t, r, http.MethodPost, "/v1/payment", token, verify)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, settled["success"])
	assert.Equal(t, float64(100), settled["balance"])

	w, dup := do(t, r, http.MethodPost, "/v1/payment", token, verify)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_PAYMENT", dup["code"])

	w, account := do(t, r, http.MethodGet, "/v1/account", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(100), account["credits"])
	assert.Equal(t, "active", account["subscription_status"])

	w, _ = do(t, r, http.MethodGet, "/v1/payments", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "399.00", rows[0]["amount"])

	w, _ = do(t, r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `billing_settlements_total{outcome="duplicate",plan="pro_monthly"} 1`), w.Body.String())
}

func TestRouter_OtherUsersOrderIsRejected(t *testing.T) {
	r := buildTestRouter(t, nil)

	_, order := do(t, r, http.MethodPost, "/payment", testToken(t, "user-1"), map[string]string{"action": "create_order", "mode": "credits"})
	orderID, _ := order["id"].(string)
	_, checkout := do(t, r, http.MethodPost, "/v1/mock/checkout/"+orderID, "", nil)

	w, body := do(t, r, http.MethodPost, "/payment", testToken(t, "user-2"), map[string]any{
		"action":     "verify_payment",
		"order_id":   checkout["razorpay_order_id"],
		"payment_id": checkout["razorpay_payment_id"],
		"signature":  checkout["razorpay_signature"],
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PLAN_MISMATCH", body["code"])
}

func TestRouter_PublicAndProtectedRoutes(t *testing.T) {
	r := buildTestRouter(t, nil)

	w, ping := do(t, r, http.MethodGet, "/v1/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", ping["message"])

	w, _ = do(t, r, http.MethodGet, "/v1/plans", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := do(t, r, http.MethodPost, "/payment", "", map[string]string{"action": "create_order"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "error", body["status"])

	w, _ = do(t, r, http.MethodGet, "/v1/account", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodOptions, "/payment", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Client-Info")
}

func TestRouter_RateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	r := buildTestRouter(t, map[string]string{
		"REDIS_ADDR":          mr.Addr(),
		"RATE_LIMIT_REQUESTS": "2",
		"RATE_LIMIT_WINDOW":   "1m",
	})
	token := testToken(t, "user-1")

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w, _ := do(t, r, http.MethodGet, "/v1/account", token, nil)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w, _ := do(t, r, http.MethodGet, "/v1/account", testToken(t, "user-2"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_GatewayNotConfigured(t *testing.T) {
	r := buildTestRouter(t, map[string]string{"PAYMENT_GATEWAY_MOCK": ""})

	w, body := do(t, r, http.MethodPost, "/payment", testToken(t, "user-1"), map[string]string{"action": "create_order", "plan": "pro_monthly"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "GATEWAY_NOT_CONFIGURED", body["code"])

	w, _ = do(t, r, http.MethodPost, "/v1/mock/checkout/order_x", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
