package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RoastType string

const (
	RoastLight     RoastType = "light"
	RoastMedium    RoastType = "medium"
	RoastDark      RoastType = "dark"
	RoastExtraDark RoastType = "extra_dark"
)

// ValidRoastType reports whether r is one of the known roast levels.
func ValidRoastType(r RoastType) bool {
	switch r {
	case RoastLight, RoastMedium, RoastDark, RoastExtraDark:
		return true
	}
	return false
}

type CoffeeProduct struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	ImageURL      *string         `json:"image_url"`
	Origin        string          `gorm:"not null" json:"origin"`
	RoastType     RoastType       `gorm:"type:varchar(20);not null" json:"roast_type"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relationships
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
}

func (CoffeeProduct) TableName() string {
	return "coffee_products"
}
