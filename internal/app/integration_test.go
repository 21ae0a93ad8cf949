package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jkim/roastery-backend/internal/app/controller"
	"github.com/jkim/roastery-backend/internal/app/model"
	"github.com/jkim/roastery-backend/internal/app/repository"
	"github.com/jkim/roastery-backend/internal/app/service"
	"github.com/jkim/roastery-backend/internal/db"
	"github.com/jkim/roastery-backend/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const integrationSecret = "integration-test-secret"

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	authService := service.NewAuthService(userRepo, integrationSecret, 15*time.Minute, 168*time.Hour)
	productService := service.NewProductService(productRepo, testDB)
	cartService := service.NewCartService(cartRepo, productRepo, userRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, userRepo, testDB)

	authController := controller.NewAuthController(authService, integrationSecret)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)

	authMiddleware := middleware.NewAuthMiddleware(integrationSecret)

	router := gin.New()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.Me)
	}

	products := router.Group("/api/v1/products")
	{
		products.GET("", productController.GetProducts)
		products.GET("/:id", productController.GetProduct)
		products.POST("", authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"), productController.CreateProduct)
		products.DELETE("/:id", authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"), productController.DeleteProduct)
	}

	cart := router.Group("/api/v1/cart", authMiddleware.Authenticate())
	{
		cart.GET("", cartController.GetCart)
		cart.POST("", cartController.AddToCart)
	}

	orders := router.Group("/api/v1/orders", authMiddleware.Authenticate())
	{
		orders.GET("", orderController.GetOrders)
		orders.POST("", orderController.CreateOrder)
		orders.GET("/:id", orderController.GetOrder)
		orders.PUT("/:id/status", authMiddleware.RequireRole("admin"), orderController.UpdateOrderStatus)
	}

	return &TestServer{Router: router, DB: testDB}
}

func (s *TestServer) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestServer) registerUser(t *testing.T, email string) (uint, string) {
	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"password": "password123",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	id := uint(response["user"].(map[string]interface{})["id"].(float64))
	return id, response["access_token"].(string)
}

// registerAdmin promotes a freshly registered user and logs in again so
// the token carries the admin role claim.
func (s *TestServer) registerAdmin(t *testing.T, email string) string {
	id, _ := s.registerUser(t, email)
	require.NoError(t, s.DB.Model(&model.User{}).Where("id = ?", id).Update("role", model.RoleAdmin).Error)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response["access_token"].(string)
}

func TestIntegration_StorefrontFlow(t *testing.T) {
	s := setupIntegrationTest(t)

	adminToken := s.registerAdmin(t, "admin@example.com")
	_, customerToken := s.registerUser(t, "customer@example.com")

	// Admin stocks the catalog
	w := s.do(t, http.MethodPost, "/api/v1/products", adminToken, gin.H{
		"name":           "Yirgacheffe",
		"description":    "Floral and citrus",
		"price":          "15.99",
		"origin":         "Ethiopia",
		"roast_type":     "light",
		"stock_quantity": 50,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	productID := uint(response["product"].(map[string]interface{})["id"].(float64))

	// Customers cannot touch the catalog
	w = s.do(t, http.MethodPost, "/api/v1/products", customerToken, gin.H{
		"name": "Rogue Beans", "price": "1.00", "origin": "Nowhere",
		"roast_type": "dark", "stock_quantity": 1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Customer shops: two bags of the same coffee, merged into one line
	w = s.do(t, http.MethodPost, "/api/v1/cart", customerToken, gin.H{
		"product_id": productID, "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/cart", customerToken, gin.H{
		"product_id": productID, "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/cart", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])

	// Checkout
	w = s.do(t, http.MethodPost, "/api/v1/orders", customerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	order := response["order"].(map[string]interface{})
	orderID := uint(order["id"].(float64))

	total, err := decimal.NewFromString(order["total_amount"].(string))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("31.98")),
		"expected total 31.98, got %s", total)

	// Stock went down, cart is empty
	var product model.CoffeeProduct
	require.NoError(t, s.DB.First(&product, productID).Error)
	assert.Equal(t, 48, product.StockQuantity)

	w = s.do(t, http.MethodGet, "/api/v1/cart", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])

	// The product now has order history and cannot be deleted
	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", productID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Admin ships the order
	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/status", orderID), adminToken, gin.H{
		"status": "shipped",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Customer sees the updated order with its price snapshot
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	fetched := response["order"].(map[string]interface{})
	assert.Equal(t, "shipped", fetched["status"])
	items := fetched["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(2), items[0].(map[string]interface{})["quantity"])

	// Status changes are admin-only
	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/status", orderID), customerToken, gin.H{
		"status": "delivered",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIntegration_OrderVisibility(t *testing.T) {
	s := setupIntegrationTest(t)

	adminToken := s.registerAdmin(t, "admin@example.com")
	_, aliceToken := s.registerUser(t, "alice@example.com")
	_, bobToken := s.registerUser(t, "bob@example.com")

	w := s.do(t, http.MethodPost, "/api/v1/products", adminToken, gin.H{
		"name": "House Blend", "price": "11.00", "origin": "Brazil",
		"roast_type": "medium", "stock_quantity": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	productID := uint(response["product"].(map[string]interface{})["id"].(float64))

	w = s.do(t, http.MethodPost, "/api/v1/cart", aliceToken, gin.H{
		"product_id": productID, "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/orders", aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	orderID := uint(response["order"].(map[string]interface{})["id"].(float64))

	// Bob cannot see Alice's order and cannot tell it exists
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/orders", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])

	// The admin listing spans users
	w = s.do(t, http.MethodGet, "/api/v1/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}
