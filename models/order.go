package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus represents all possible states of a tiffin order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// AllStatuses lists the statuses in lifecycle order
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentGPay PaymentMethod = "GPay"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCOD || p == PaymentGPay
}

type Order struct {
	ID                  uint                 `json:"id" gorm:"primaryKey"`
	CustomerID          uint                 `json:"customer_id" gorm:"not null;index"`
	Customer            User                 `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	TiffinMakerID       *uint                `json:"tiffin_maker_id" gorm:"index"`
	TiffinMaker         *TiffinMaker         `json:"tiffin_maker,omitempty" gorm:"foreignKey:TiffinMakerID"`
	OrderDate           datatypes.Date       `json:"order_date" gorm:"not null"`
	DeliveryDate        datatypes.Date       `json:"delivery_date" gorm:"not null;index"`
	TotalAmount         decimal.Decimal      `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	PaymentMethod       PaymentMethod        `json:"payment_method" gorm:"size:10;not null"`
	PaymentReference    string               `json:"payment_reference,omitempty"`
	Status              OrderStatus          `json:"status" gorm:"size:20;not null;default:'pending';index"`
	DeliveryAddress     string               `json:"delivery_address"`
	SpecialInstructions string               `json:"special_instructions"`
	Items               []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory       []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

type OrderItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	OrderID      uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID   uint            `json:"menu_item_id" gorm:"not null;index"`
	MenuItem     MenuItem        `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" gorm:"type:decimal(10,2);not null"` // snapshot price at time of order
	Name         string          `json:"name"`                                              // snapshot name
}

// LineTotal is quantity × the snapshotted unit price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PricePerUnit.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusHistory tracks every status change
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// All lists every table the service migrates
var All = []interface{}{
	&User{},
	&Session{},
	&TiffinMaker{},
	&MenuItem{},
	&CartEntry{},
	&Order{},
	&OrderItem{},
	&OrderStatusHistory{},
}
