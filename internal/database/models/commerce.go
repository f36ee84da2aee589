package models

import "time"

// Purchase is a one-off product purchase synced from the remote store
type Purchase struct {
	ID uint `gorm:"primaryKey" json:"id"`
	SyncMeta

	Amount      *float64   `json:"amount,omitempty"`
	Paid        *float64   `json:"paid,omitempty"`
	TotalAmount *float64   `json:"total_amount,omitempty"`
	PurchasedAt *time.Time `gorm:"index" json:"purchased_at,omitempty"`

	Status      string `gorm:"size:50" json:"status"`
	ProductName string `gorm:"size:255" json:"product_name"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName returns the table name for Purchase
func (Purchase) TableName() string {
	return "purchases"
}

// SignalPayment is a payment for premium signal access
type SignalPayment struct {
	ID uint `gorm:"primaryKey" json:"id"`
	SyncMeta

	Amount      *float64 `json:"amount,omitempty"`
	Paid        *float64 `json:"paid,omitempty"`
	TotalAmount *float64 `json:"total_amount,omitempty"`
	Price       *float64 `json:"price,omitempty"`

	PaidAt             *time.Time `gorm:"index" json:"paid_at,omitempty"`
	Method             string     `gorm:"size:100" json:"method"`
	Status             string     `gorm:"size:50" json:"status"`
	SignalType         string     `gorm:"size:100" json:"signal_type"`
	SubscriptionPeriod string     `gorm:"size:50" json:"subscription_period"`
}

// TableName returns the table name for SignalPayment
func (SignalPayment) TableName() string {
	return "signal_payments"
}
