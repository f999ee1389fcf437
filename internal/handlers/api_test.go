package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/testutils"
)

type apiEnvelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Pagination map[string]interface{} `json:"pagination"`
}

type listEnvelope struct {
	Success    bool                     `json:"success"`
	Data       []map[string]interface{} `json:"data"`
	Pagination map[string]interface{}   `json:"pagination"`
}

func login(t *testing.T, app *fiber.App, phone, password string) (token, refresh string) {
	t.Helper()

	resp := testutils.MakeRequest(t, app, http.MethodPost, "/api/users/login", fiber.Map{
		"phone_number": phone,
		"password":     password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body apiEnvelope
	testutils.ParseResponse(t, resp, &body)
	require.True(t, body.Success)

	token, _ = body.Data["token"].(string)
	refresh, _ = body.Data["refresh_token"].(string)
	require.NotEmpty(t, token)
	require.NotEmpty(t, refresh)
	return token, refresh
}

func seedProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()
	category := testutils.CreateTestCategory(t, db, "Phones")
	return testutils.CreateTestProduct(t, db, "Handset", 150, category.ID)
}

func TestRegisterLoginOrderFlow(t *testing.T) {
	app, db := testutils.SetupTestApp(t)
	product := seedProduct(t, db)

	resp := testutils.MakeRequest(t, app, http.MethodPost, "/api/users/register", fiber.Map{
		"fullname":        "Flow Buyer",
		"phone_number":    "998901112233",
		"password":        "secret1",
		"retype_password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var registered apiEnvelope
	testutils.ParseResponse(t, resp, &registered)
	require.True(t, registered.Success)
	assert.Equal(t, "USER", registered.Data["role"])

	token, _ := login(t, app, "998901112233", "secret1")

	resp = testutils.MakeRequest(t, app, http.MethodPost, "/api/orders/", fiber.Map{
		"fullname": "Flow Buyer",
		"address":  "1 Flow Street",
		"cart_items": []fiber.Map{
			{"product_id": product.ID, "quantity": 2},
		},
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created apiEnvelope
	testutils.ParseResponse(t, resp, &created)
	require.True(t, created.Success)
	assert.Equal(t, "pending", created.Data["status"])
	assert.Equal(t, 300.0, created.Data["total_money"])

	orderID := int(created.Data["id"].(float64))
	resp = testutils.MakeRequest(t, app, http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched apiEnvelope
	testutils.ParseResponse(t, resp, &fetched)
	items, ok := fetched.Data["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestErrorEnvelopes(t *testing.T) {
	app, db := testutils.SetupTestApp(t)
	testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)

	// Duplicate phone -> 409 CONFLICT.
	resp := testutils.MakeRequest(t, app, http.MethodPost, "/api/users/register", fiber.Map{
		"fullname":        "Copycat",
		"phone_number":    "998901112233",
		"password":        "secret2",
		"retype_password": "secret2",
	}, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var dup apiEnvelope
	testutils.ParseResponse(t, resp, &dup)
	assert.False(t, dup.Success)
	assert.Equal(t, "CONFLICT", dup.Error.Code)

	// Wrong password -> 401 UNAUTHORIZED.
	resp = testutils.MakeRequest(t, app, http.MethodPost, "/api/users/login", fiber.Map{
		"phone_number": "998901112233",
		"password":     "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var badLogin apiEnvelope
	testutils.ParseResponse(t, resp, &badLogin)
	assert.Equal(t, "UNAUTHORIZED", badLogin.Error.Code)

	// Missing bearer token keeps order routes closed.
	resp = testutils.MakeRequest(t, app, http.MethodPost, "/api/orders/", fiber.Map{
		"cart_items": []fiber.Map{{"product_id": 1, "quantity": 1}},
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Customers cannot reach admin-only order search.
	token, _ := login(t, app, "998901112233", "secret1")
	resp = testutils.MakeRequest(t, app, http.MethodGet, "/api/orders/get-orders-by-keyword", nil, token)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRefreshTokenRotation(t *testing.T) {
	app, db := testutils.SetupTestApp(t)
	testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)

	_, refresh := login(t, app, "998901112233", "secret1")

	resp := testutils.MakeRequest(t, app, http.MethodPost, "/api/users/refresh-token", fiber.Map{
		"refresh_token": refresh,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rotated apiEnvelope
	testutils.ParseResponse(t, resp, &rotated)
	newRefresh, _ := rotated.Data["refresh_token"].(string)
	require.NotEmpty(t, newRefresh)
	assert.NotEqual(t, refresh, newRefresh)

	// The spent credential is rejected on replay.
	resp = testutils.MakeRequest(t, app, http.MethodPost, "/api/users/refresh-token", fiber.Map{
		"refresh_token": refresh,
	}, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var replay apiEnvelope
	testutils.ParseResponse(t, resp, &replay)
	assert.Equal(t, "NOT_FOUND", replay.Error.Code)
}

func TestAdminOrderManagement(t *testing.T) {
	app, db := testutils.SetupTestApp(t)
	product := seedProduct(t, db)

	testutils.CreateTestUser(t, db, "998900000001", "", "admin-pass", models.RoleAdmin)
	buyer := testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)

	buyerToken, buyerRefresh := login(t, app, "998901112233", "secret1")
	adminToken, _ := login(t, app, "998900000001", "admin-pass")

	resp := testutils.MakeRequest(t, app, http.MethodPost, "/api/orders/", fiber.Map{
		"fullname": "Keyword Buyer",
		"address":  "1 Flow Street",
		"cart_items": []fiber.Map{
			{"product_id": product.ID, "quantity": 1},
		},
	}, buyerToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created apiEnvelope
	testutils.ParseResponse(t, resp, &created)
	orderID := int(created.Data["id"].(float64))

	// Status updates walk the transition table; illegal jumps are rejected.
	resp = testutils.MakeRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/orders/%d/status?status=delivered", orderID), nil, adminToken)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var illegal apiEnvelope
	testutils.ParseResponse(t, resp, &illegal)
	assert.Equal(t, "VALIDATION_ERROR", illegal.Error.Code)

	resp = testutils.MakeRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/orders/%d/status?status=processing", orderID), nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutils.MakeRequest(t, app, http.MethodGet,
		"/api/orders/get-orders-by-keyword?keyword=keyword&page=1&limit=10", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var search listEnvelope
	testutils.ParseResponse(t, resp, &search)
	require.Len(t, search.Data, 1)
	assert.EqualValues(t, 1, search.Pagination["total_items"])

	// Blocking the buyer kills their existing session.
	resp = testutils.MakeRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/users/block/%d/0", buyer.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutils.MakeRequest(t, app, http.MethodPost, "/api/users/details", nil, buyerToken)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The refresh credential is equally dead for a blocked account.
	resp = testutils.MakeRequest(t, app, http.MethodPost, "/api/users/refresh-token", fiber.Map{
		"refresh_token": buyerRefresh,
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var blockedRefresh apiEnvelope
	testutils.ParseResponse(t, resp, &blockedRefresh)
	assert.Equal(t, "UNAUTHORIZED", blockedRefresh.Error.Code)
}

func TestPublicCatalogBrowsing(t *testing.T) {
	app, db := testutils.SetupTestApp(t)
	product := seedProduct(t, db)

	resp := testutils.MakeRequest(t, app, http.MethodGet, "/api/products/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed listEnvelope
	testutils.ParseResponse(t, resp, &listed)
	require.Len(t, listed.Data, 1)

	resp = testutils.MakeRequest(t, app, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Writes stay closed without an admin session.
	resp = testutils.MakeRequest(t, app, http.MethodPost, "/api/products/", fiber.Map{
		"name": "Sneaky", "price": 10, "category_id": 1,
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
