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

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	return NewProductService(productRepo, testDB), testDB
}

func validProductInput() CreateProductInput {
	return CreateProductInput{
		Name:          "Sidamo",
		Description:   "Berry and wine notes",
		Price:         decimal.RequireFromString("16.50"),
		Origin:        "Ethiopia",
		RoastType:     model.RoastLight,
		StockQuantity: 25,
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(validProductInput())
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, "Sidamo", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("16.50")))
	assert.False(t, product.CreatedAt.IsZero())
}

func TestProductService_CreateProduct_Invalid(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	tests := []struct {
		name   string
		mutate func(*CreateProductInput)
	}{
		{"empty name", func(in *CreateProductInput) { in.Name = "" }},
		{"empty description", func(in *CreateProductInput) { in.Description = "" }},
		{"zero price", func(in *CreateProductInput) { in.Price = decimal.Zero }},
		{"negative price", func(in *CreateProductInput) { in.Price = decimal.RequireFromString("-1.00") }},
		{"unknown roast", func(in *CreateProductInput) { in.RoastType = "burnt" }},
		{"negative stock", func(in *CreateProductInput) { in.StockQuantity = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validProductInput()
			tt.mutate(&input)

			product, err := productService.CreateProduct(input)
			assert.ErrorIs(t, err, ErrInvalidProductData)
			assert.Nil(t, product)
		})
	}
}

func TestProductService_GetAllProducts_Filters(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	_, err := productService.CreateProduct(validProductInput())
	require.NoError(t, err)

	dark := validProductInput()
	dark.Name = "French Roast"
	dark.RoastType = model.RoastDark
	dark.Origin = "Brazil"
	dark.StockQuantity = 0
	_, err = productService.CreateProduct(dark)
	require.NoError(t, err)

	all, err := productService.GetAllProducts(repository.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	light, err := productService.GetAllProducts(repository.ProductFilter{RoastType: model.RoastLight})
	require.NoError(t, err)
	require.Len(t, light, 1)
	assert.Equal(t, "Sidamo", light[0].Name)

	inStock, err := productService.GetAllProducts(repository.ProductFilter{InStock: true})
	require.NoError(t, err)
	require.Len(t, inStock, 1)
	assert.Equal(t, "Sidamo", inStock[0].Name)

	_, err = productService.GetAllProducts(repository.ProductFilter{RoastType: "charcoal"})
	assert.ErrorIs(t, err, ErrInvalidProductData)
}

func TestProductService_GetProductByID_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.GetProductByID(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, product)
}

func TestProductService_UpdateProduct_Partial(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(validProductInput())
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("17.25")
	newStock := 40
	updated, err := productService.UpdateProduct(product.ID, UpdateProductInput{
		Price:         &newPrice,
		StockQuantity: &newStock,
	})
	require.NoError(t, err)

	// Touched fields change, the rest stay
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, 40, updated.StockQuantity)
	assert.Equal(t, "Sidamo", updated.Name)
	assert.Equal(t, model.RoastLight, updated.RoastType)
}

func TestProductService_UpdateProduct_InvalidAndNotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(validProductInput())
	require.NoError(t, err)

	badPrice := decimal.RequireFromString("-5.00")
	_, err = productService.UpdateProduct(product.ID, UpdateProductInput{Price: &badPrice})
	assert.ErrorIs(t, err, ErrInvalidProductData)

	blank := ""
	_, err = productService.UpdateProduct(product.ID, UpdateProductInput{Description: &blank})
	assert.ErrorIs(t, err, ErrInvalidProductData)

	name := "Ghost"
	_, err = productService.UpdateProduct(9999, UpdateProductInput{Name: &name})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(validProductInput())
	require.NoError(t, err)

	require.NoError(t, productService.DeleteProduct(product.ID))

	_, err = productService.GetProductByID(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	err := productService.DeleteProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct_BlockedByOrders(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)

	product, err := productService.CreateProduct(validProductInput())
	require.NoError(t, err)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
		Role:         model.RoleCustomer,
	}
	testDB.Create(user)

	order := &model.Order{
		UserID:      user.ID,
		TotalAmount: product.Price,
		Status:      model.OrderStatusPending,
		OrderItems: []model.OrderItem{
			{ProductID: product.ID, Quantity: 1, PriceAtTime: product.Price},
		},
	}
	testDB.Create(order)

	err = productService.DeleteProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductReferenced)

	// Product survives
	fetched, err := productService.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, fetched.ID)
}

func TestProductService_DeleteProduct_CascadesCartReferences(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)

	product, err := productService.CreateProduct(validProductInput())
	require.NoError(t, err)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
		Role:         model.RoleCustomer,
	}
	testDB.Create(user)

	testDB.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	})

	require.NoError(t, productService.DeleteProduct(product.ID))

	var count int64
	testDB.Model(&model.CartItem{}).Where("product_id = ?", product.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
