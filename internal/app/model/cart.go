package model

import (
	"time"
)

// CartItem holds one line of a user's cart. The (user_id, product_id)
// pair is unique: adding the same product again merges quantities.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;index;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User    User          `gorm:"foreignKey:UserID" json:"-"`
	Product CoffeeProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
