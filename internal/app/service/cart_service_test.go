package service

import (
	"testing"

	"github.com/jkim/roastery-backend/internal/app/model"
	"github.com/jkim/roastery-backend/internal/app/repository"
	"github.com/jkim/roastery-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *gorm.DB, *model.User, *model.CoffeeProduct) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo, userRepo)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleCustomer,
	}
	testDB.Create(user)

	product := &model.CoffeeProduct{
		Name:          "Antigua",
		Price:         decimal.RequireFromString("14.25"),
		Origin:        "Guatemala",
		RoastType:     model.RoastDark,
		StockQuantity: 10,
	}
	testDB.Create(product)

	return cartService, testDB, user, product
}

func TestCartService_AddToCart_NewItem(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, product.ID, item.Product.ID)
}

func TestCartService_AddToCart_MergesDuplicate(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	first, err := cartService.AddToCart(user.ID, product.ID, 3)
	require.NoError(t, err)

	second, err := cartService.AddToCart(user.ID, product.ID, 4)
	require.NoError(t, err)

	// Same row, summed quantity
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 7, second.Quantity)

	var count int64
	testDB.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCartService_AddToCart_InvalidQuantity(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = cartService.AddToCart(user.ID, product.ID, -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_AddToCart_UserNotFound(t *testing.T) {
	cartService, _, _, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(9999, product.ID, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCartService_AddToCart_ProductNotFound(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddToCart_RequestExceedsStock(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_AddToCart_MergedTotalExceedsStock(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 6)
	require.NoError(t, err)

	// 6 already in the cart, 6 more would pass the lone-request check
	// but not the merged one
	_, err = cartService.AddToCart(user.ID, product.ID, 6)
	assert.ErrorIs(t, err, ErrCartQuantityExceedsStock)

	// Existing line is untouched
	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 6, items[0].Quantity)
}

func TestCartService_GetUserCart_LoadsProducts(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	second := &model.CoffeeProduct{
		Name:          "Toraja",
		Price:         decimal.RequireFromString("18.00"),
		Origin:        "Indonesia",
		RoastType:     model.RoastExtraDark,
		StockQuantity: 5,
	}
	testDB.Create(second)

	_, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, second.ID, 1)
	require.NoError(t, err)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Antigua", items[0].Product.Name)
	assert.Equal(t, "Toraja", items[1].Product.Name)
}

func TestCartService_UpdateCartItem(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	updated, err := cartService.UpdateCartItem(user.ID, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
}

func TestCartService_UpdateCartItem_NotFound(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	_, err := cartService.UpdateCartItem(user.ID, 9999, 5)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateCartItem_OwnershipMismatch(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other User",
		Role:         model.RoleCustomer,
	}
	testDB.Create(other)

	_, err = cartService.UpdateCartItem(other.ID, item.ID, 5)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveFromCart_Idempotent(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, cartService.RemoveFromCart(user.ID, item.ID))

	// Removing the same line again still succeeds
	require.NoError(t, cartService.RemoveFromCart(user.ID, item.ID))

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestCartService_ClearCart_Idempotent(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, cartService.ClearCart(user.ID))
	require.NoError(t, cartService.ClearCart(user.ID))

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}
