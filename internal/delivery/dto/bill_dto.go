package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type BillItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
}

type CreateBillRequest struct {
	PatientID      uuid.UUID         `json:"patient_id" validate:"required"`
	TokenID        uuid.UUID         `json:"token_id" validate:"required"`
	PrescriptionID *uuid.UUID        `json:"prescription_id,omitempty"`
	Items          []BillItemRequest `json:"items" validate:"required,min=1,dive"`
	// Nil tax rate falls back to the clinic default; zero means no tax
	TaxRate  *decimal.Decimal `json:"tax_rate,omitempty"`
	Discount decimal.Decimal  `json:"discount"`
}

type PayBillRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash card upi"`
}

// Response DTOs

type BillItemResponse struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type BillResponse struct {
	ID             uuid.UUID          `json:"id"`
	PatientID      uuid.UUID          `json:"patient_id"`
	PatientName    string             `json:"patient_name,omitempty"`
	TokenID        uuid.UUID          `json:"token_id"`
	PrescriptionID *uuid.UUID         `json:"prescription_id,omitempty"`
	Items          []BillItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxRate        decimal.Decimal    `json:"tax_rate"`
	Tax            decimal.Decimal    `json:"tax"`
	Discount       decimal.Decimal    `json:"discount"`
	Total          decimal.Decimal    `json:"total"`
	Status         string             `json:"status"`
	PaymentMethod  *string            `json:"payment_method,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	CreatedBy      uuid.UUID          `json:"created_by"`
	PaidAt         *time.Time         `json:"paid_at,omitempty"`
}

type BillListResponse struct {
	Bills []BillResponse `json:"bills"`
	Total int            `json:"total"`
}
