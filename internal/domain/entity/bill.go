package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillStatus represents the payment state of a bill
type BillStatus string

const (
	BillStatusPending   BillStatus = "pending"
	BillStatusPaid      BillStatus = "paid"
	BillStatusCancelled BillStatus = "cancelled"
)

// PaymentMethod constants
const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
)

// BillItem is one line of a bill. Total is quantity * unit price.
type BillItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// BillItemList is stored as a JSONB column
type BillItemList []BillItem

func (l BillItemList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *BillItemList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, l)
}

// Bill is an itemized charge record tied to one patient and one token.
// Invariant: Total = Subtotal + Tax - Discount.
type Bill struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	TokenID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"token_id"`
	PrescriptionID *uuid.UUID      `gorm:"type:uuid" json:"prescription_id,omitempty"`
	Items          BillItemList    `gorm:"type:jsonb;not null" json:"items"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	Tax            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Discount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status         BillStatus      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentMethod  *string         `gorm:"type:varchar(10)" json:"payment_method,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Token   Token   `gorm:"foreignKey:TokenID" json:"token,omitempty"`
}

func (Bill) TableName() string {
	return "bills"
}
