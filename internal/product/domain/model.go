package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID    snowflake.ID    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name  string          `json:"name" gorm:"type:varchar(255);not null;index"`
	Price decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock int             `json:"stock" gorm:"not null;default:0"`
}

func (Product) TableName() string { return "products" }
