package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
)

// Order is a customer's purchase of a set of products. TotalAmount is the sum
// of the product prices at creation time.
type Order struct {
	ID          snowflake.ID             `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CustomerID  snowflake.ID             `gorm:"not null;index" json:"customer_id"`
	Customer    *customerdomain.Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	Products    []productdomain.Product  `gorm:"many2many:order_products;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	OrderDate   time.Time                `gorm:"not null;index" json:"order_date"`
	TotalAmount decimal.Decimal          `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
}

func (Order) TableName() string { return "orders" }
