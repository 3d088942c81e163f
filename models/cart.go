package models

import "time"

// CartEntry is one (customer, menu item) line of a customer's cart.
// Repeated adds of the same item accumulate into the same row.
type CartEntry struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CustomerID uint      `json:"customer_id" gorm:"not null;uniqueIndex:idx_cart_customer_item"`
	MenuItemID uint      `json:"menu_item_id" gorm:"not null;uniqueIndex:idx_cart_customer_item"`
	MenuItem   MenuItem  `json:"menu_item" gorm:"foreignKey:MenuItemID"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	AddedAt    time.Time `json:"added_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CartEntry) TableName() string { return "cart" }
