package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TiffinMaker struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	User             User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	BusinessName     string    `json:"business_name" gorm:"size:100;not null"`
	Location         string    `json:"location" gorm:"size:200;not null"`
	CuisineSpecialty string    `json:"cuisine_specialty" gorm:"size:100"`
	Rating           float64   `json:"rating" gorm:"default:0"`
	IsActive         bool      `json:"is_active" gorm:"default:true"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type MenuItem struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"size:100;not null;index"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Icon          string          `json:"icon,omitempty" gorm:"size:16"`
	DayOfWeek     string          `json:"day_of_week" gorm:"size:20;index"`
	TiffinMakerID *uint           `json:"tiffin_maker_id"`
	TiffinMaker   *TiffinMaker    `json:"tiffin_maker,omitempty" gorm:"foreignKey:TiffinMakerID"`
	IsAvailable   bool            `json:"is_available" gorm:"default:true"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
