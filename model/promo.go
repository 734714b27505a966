package model

import "time"

type PromoCode struct {
	DTO
	Code          string     `gorm:"unique;not null" json:"code"`
	Description   string     `gorm:"type:text" json:"description"`
	DiscountType  string     `gorm:"not null" json:"discountType"` //percentage','fixed
	DiscountValue float64    `gorm:"type:decimal(10,2);not null" json:"discountValue"`
	MinOrder      float64    `gorm:"type:decimal(10,2);default:0" json:"minOrder"`
	ValidFrom     *time.Time `json:"validFrom,omitempty"`
	ValidUntil    *time.Time `json:"validUntil,omitempty"`
	Status        string     `gorm:"default:'active';not null" json:"status"` //active','inactive','expired
}
