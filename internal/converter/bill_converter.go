package converter

import (
	"clinicdesk/internal/delivery/dto"
	"clinicdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// BillToResponse converts a Bill entity to BillResponse DTO
func BillToResponse(bill *entity.Bill) *dto.BillResponse {
	if bill == nil {
		return nil
	}

	items := make([]dto.BillItemResponse, len(bill.Items))
	for i, item := range bill.Items {
		items[i] = dto.BillItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	}

	response := &dto.BillResponse{
		ID:             bill.ID,
		PatientID:      bill.PatientID,
		TokenID:        bill.TokenID,
		PrescriptionID: bill.PrescriptionID,
		Items:          items,
		Subtotal:       bill.Subtotal,
		TaxRate:        bill.TaxRate,
		Tax:            bill.Tax,
		Discount:       bill.Discount,
		Total:          bill.Total,
		Status:         string(bill.Status),
		PaymentMethod:  bill.PaymentMethod,
		CreatedAt:      bill.CreatedAt,
		CreatedBy:      bill.CreatedBy,
		PaidAt:         bill.PaidAt,
	}

	if bill.Patient.ID != uuid.Nil {
		response.PatientName = bill.Patient.Name
	}

	return response
}

// BillsToResponses converts a slice of Bill entities to DTOs
func BillsToResponses(bills []entity.Bill) []dto.BillResponse {
	responses := make([]dto.BillResponse, len(bills))
	for i, bill := range bills {
		resp := BillToResponse(&bill)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
