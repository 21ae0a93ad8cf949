package service

import (
	"errors"
	"fmt"

	"github.com/jkim/roastery-backend/internal/app/model"
	"github.com/jkim/roastery-backend/internal/app/repository"
	"github.com/jkim/roastery-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

type OrderService interface {
	CreateOrder(userID uint) (*model.Order, error)
	GetOrders(userID *uint) ([]model.Order, error)
	GetOrderByID(orderID uint, userID *uint) (*model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	userRepo  repository.UserRepository
	db        *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		db:        db,
	}
}

// CreateOrder converts the user's entire cart into an order. Stock rows
// are locked for the duration of the transaction; any line short on
// stock aborts the whole order. On success the cart is cleared and each
// order item carries the product price at purchase time.
func (s *orderService) CreateOrder(userID uint) (*model.Order, error) {
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id": userID,
	})

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order creation failed: user not found", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user during order creation", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart items during order creation", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartItems) == 0 {
		logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	logger.Debug("Processing cart items for order", map[string]interface{}{
		"user_id":    userID,
		"item_count": len(cartItems),
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var (
		totalAmount = decimal.Zero
		orderItems  []model.OrderItem
	)

	for _, cartItem := range cartItems {
		var product model.CoffeeProduct
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, cartItem.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product not found during order creation", map[string]interface{}{
					"user_id":    userID,
					"product_id": cartItem.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product during order creation", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": cartItem.ProductID,
			})
			return nil, err
		}

		if product.StockQuantity < cartItem.Quantity {
			tx.Rollback()
			logger.Warn("Order creation failed: insufficient product stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": cartItem.ProductID,
				"requested":  cartItem.Quantity,
				"available":  product.StockQuantity,
			})
			return nil, fmt.Errorf("%w for product %s", ErrInsufficientStock, product.Name)
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID:   cartItem.ProductID,
			Quantity:    cartItem.Quantity,
			PriceAtTime: product.Price,
		})
		totalAmount = totalAmount.Add(product.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity))))

		if err := tx.Model(&model.CoffeeProduct{}).
			Where("id = ?", product.ID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", cartItem.Quantity)).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to decrement product stock", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
			})
			return nil, err
		}
	}

	order := &model.Order{
		UserID:      userID,
		TotalAmount: totalAmount,
		Status:      model.OrderStatusPending,
		OrderItems:  orderItems,
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id":      userID,
			"total_amount": totalAmount.String(),
		})
		return nil, err
	}

	if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart after order creation", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": totalAmount.String(),
		"item_count":   len(orderItems),
	})

	return s.orderRepo.FindByID(order.ID)
}

// GetOrders lists orders newest first. A nil userID lists every user's
// orders; otherwise only the given user's.
func (s *orderService) GetOrders(userID *uint) ([]model.Order, error) {
	logger.Debug("Fetching orders", map[string]interface{}{
		"user_id": userID,
	})

	var (
		orders []model.Order
		err    error
	)
	if userID == nil {
		orders, err = s.orderRepo.FindAll()
	} else {
		orders, err = s.orderRepo.FindByUserID(*userID)
	}
	if err != nil {
		logger.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Orders fetched successfully", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

// GetOrderByID fetches one order. When userID is set, an order owned by
// a different user is reported as not found rather than forbidden.
func (s *orderService) GetOrderByID(orderID uint, userID *uint) (*model.Order, error) {
	logger.Debug("Fetching order by ID", map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if userID != nil && order.UserID != *userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"order_id": orderID,
			"user_id":  *userID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}

// UpdateOrderStatus sets the status unconditionally; any valid status
// may follow any other.
func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if !model.ValidOrderStatus(status) {
		logger.Warn("Order status update failed: invalid status", map[string]interface{}{
			"order_id": orderID,
			"status":   status,
		})
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found for status update", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	logger.Info("Order status updated successfully", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return s.orderRepo.FindByID(orderID)
}
