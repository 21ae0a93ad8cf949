package service

import (
	"errors"
	"fmt"

	"github.com/jkim/roastery-backend/internal/app/model"
	"github.com/jkim/roastery-backend/internal/app/repository"
	"github.com/jkim/roastery-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductReferenced  = errors.New("product is referenced by existing orders")
	ErrInvalidProductData = errors.New("invalid product data")
)

// CreateProductInput carries the fields for a new catalog entry.
type CreateProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	ImageURL      *string
	Origin        string
	RoastType     model.RoastType
	StockQuantity int
}

// UpdateProductInput carries a partial update. Nil fields are left as-is.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	ImageURL      *string
	Origin        *string
	RoastType     *model.RoastType
	StockQuantity *int
}

type ProductService interface {
	GetAllProducts(filter repository.ProductFilter) ([]model.CoffeeProduct, error)
	GetProductByID(id uint) (*model.CoffeeProduct, error)
	CreateProduct(input CreateProductInput) (*model.CoffeeProduct, error)
	UpdateProduct(id uint, input UpdateProductInput) (*model.CoffeeProduct, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewProductService(productRepo repository.ProductRepository, db *gorm.DB) ProductService {
	return &productService{
		productRepo: productRepo,
		db:          db,
	}
}

func (s *productService) GetAllProducts(filter repository.ProductFilter) ([]model.CoffeeProduct, error) {
	logger.Debug("Fetching products", map[string]interface{}{
		"roast_type": filter.RoastType,
		"origin":     filter.Origin,
	})

	if filter.RoastType != "" && !model.ValidRoastType(filter.RoastType) {
		return nil, fmt.Errorf("%w: unknown roast type %q", ErrInvalidProductData, filter.RoastType)
	}

	products, err := s.productRepo.FindAll(filter)
	if err != nil {
		logger.Error("Failed to fetch products", err, nil)
		return nil, err
	}

	logger.Info("Products fetched successfully", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productService) GetProductByID(id uint) (*model.CoffeeProduct, error) {
	logger.Debug("Fetching product by ID", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return product, nil
}

func validateProductFields(name, description string, price decimal.Decimal, roastType model.RoastType, stock int) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProductData)
	}
	if description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidProductData)
	}
	if price.IsNegative() || price.IsZero() {
		return fmt.Errorf("%w: price must be positive", ErrInvalidProductData)
	}
	if !model.ValidRoastType(roastType) {
		return fmt.Errorf("%w: unknown roast type %q", ErrInvalidProductData, roastType)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock quantity must not be negative", ErrInvalidProductData)
	}
	return nil
}

func (s *productService) CreateProduct(input CreateProductInput) (*model.CoffeeProduct, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":       input.Name,
		"roast_type": input.RoastType,
	})

	if err := validateProductFields(input.Name, input.Description, input.Price, input.RoastType, input.StockQuantity); err != nil {
		logger.Warn("Product creation failed: invalid data", map[string]interface{}{
			"name":  input.Name,
			"error": err.Error(),
		})
		return nil, err
	}

	product := &model.CoffeeProduct{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		ImageURL:      input.ImageURL,
		Origin:        input.Origin,
		RoastType:     input.RoastType,
		StockQuantity: input.StockQuantity,
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *productService) UpdateProduct(id uint, input UpdateProductInput) (*model.CoffeeProduct, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found for update", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for update", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.Origin != nil {
		product.Origin = *input.Origin
	}
	if input.RoastType != nil {
		product.RoastType = *input.RoastType
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}

	if err := validateProductFields(product.Name, product.Description, product.Price, product.RoastType, product.StockQuantity); err != nil {
		logger.Warn("Product update failed: invalid data", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

// DeleteProduct removes a catalog entry. Products referenced by order
// items are never deleted so order history stays intact; cart references
// are removed along with the product inside one transaction.
func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during product deletion, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"product_id": id,
			})
		}
	}()

	var product model.CoffeeProduct
	if err := tx.First(&product, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found for deletion", map[string]interface{}{
				"product_id": id,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product for deletion", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	referenceCount, err := repository.NewOrderRepository(tx).CountItemsByProduct(id)
	if err != nil {
		tx.Rollback()
		logger.Error("Failed to count order references for product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	if referenceCount > 0 {
		tx.Rollback()
		logger.Warn("Product deletion blocked: referenced by orders", map[string]interface{}{
			"product_id":      id,
			"reference_count": referenceCount,
		})
		return ErrProductReferenced
	}

	if err := repository.NewCartRepository(tx).DeleteByProductID(id); err != nil {
		tx.Rollback()
		logger.Error("Failed to remove cart references for product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	if err := tx.Delete(&model.CoffeeProduct{}, id).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit product deletion", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
