package model

import (
	"time"

	"github.com/google/uuid"
)

type Discount struct {
	DiscountID uuid.UUID `gorm:"column:discount_id;type:uuid;default:gen_random_uuid();primaryKey" json:"discount_id"`

	DiscountDescription string  `gorm:"column:discount_description;not null" json:"discount_description"`
	DiscountPercentage  float64 `gorm:"column:discount_percentage;not null;check:discount_percentage >= 0 AND discount_percentage <= 1" json:"discount_percentage"`

	CreatedAt time.Time `gorm:"column:discount_created_at;autoCreateTime" json:"discount_created_at"`
}

func (Discount) TableName() string { return "discounts" }
