package repository

import (
	"github.com/jkim/roastery-backend/internal/app/model"
	"github.com/jkim/roastery-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows catalog listings. Zero values mean no filtering.
type ProductFilter struct {
	RoastType model.RoastType
	Origin    string
	InStock   bool
}

type ProductRepository interface {
	Create(product *model.CoffeeProduct) error
	FindAll(filter ProductFilter) ([]model.CoffeeProduct, error)
	FindByID(id uint) (*model.CoffeeProduct, error)
	Update(product *model.CoffeeProduct) error
	Delete(id uint) error
	BulkCreate(products []model.CoffeeProduct, batchSize int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.CoffeeProduct) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":       product.Name,
		"roast_type": product.RoastType,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) BulkCreate(products []model.CoffeeProduct, batchSize int) error {
	logger.Info("Bulk creating products in database", map[string]interface{}{
		"count":      len(products),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products in database", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}

	return nil
}

func (r *productRepository) FindAll(filter ProductFilter) ([]model.CoffeeProduct, error) {
	logger.Debug("Finding products in database", map[string]interface{}{
		"roast_type": filter.RoastType,
		"origin":     filter.Origin,
		"in_stock":   filter.InStock,
	})

	query := r.db.Model(&model.CoffeeProduct{})
	if filter.RoastType != "" {
		query = query.Where("roast_type = ?", filter.RoastType)
	}
	if filter.Origin != "" {
		query = query.Where("origin = ?", filter.Origin)
	}
	if filter.InStock {
		query = query.Where("stock_quantity > 0")
	}

	var products []model.CoffeeProduct
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err, nil)
		return nil, err
	}

	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.CoffeeProduct, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.CoffeeProduct
	if err := r.db.First(&product, id).Error; err != nil {
		logger.Debug("Product not found by ID in database", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) Update(product *model.CoffeeProduct) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.CoffeeProduct{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	return nil
}
