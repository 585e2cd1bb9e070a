package model

import (
	"encoding/json"
	"time"
)

type Product struct {
	ID              uint    `gorm:"primaryKey"`
	StripeProductID *string `gorm:"size:255"`
	StripePriceID   *string `gorm:"size:255"`
	Name            string  `gorm:"size:100;not null"`
	Description     string  `gorm:"type:text"`
	Currency        string  `gorm:"size:10;not null;default:usd"`
	// amount in minor currency units, e.g. 2000 for $20.00
	Amount    uint            `gorm:"not null"`
	Active    *bool
	Metadata  json.RawMessage `gorm:"type:json"`
	Quantity  int             `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Product) TableName() string { return "products" }

// PaymentSession is a one-time snapshot of a gateway checkout session taken
// right after creation. Rows are inserted exactly once and never updated;
// reconciling later status changes would be a separate path.
type PaymentSession struct {
	ID              uint    `gorm:"primaryKey"`
	StripeSessionID string  `gorm:"size:255;uniqueIndex;not null"`
	ProductID       uint    `gorm:"index;not null"`
	Product         Product `gorm:"constraint:OnDelete:CASCADE"`
	CustomerEmail   *string `gorm:"size:254"`
	Currency        string  `gorm:"size:10;not null;default:usd"`
	AmountTotal     uint    `gorm:"not null"`
	Status          string  `gorm:"size:50"`
	PaymentStatus   string  `gorm:"size:50"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PaymentSession) TableName() string { return "payment_sessions" }
