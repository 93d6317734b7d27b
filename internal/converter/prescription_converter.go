package converter

import (
	"clinicdesk/internal/delivery/dto"
	"clinicdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// PrescriptionToResponse converts a Prescription entity to its DTO
func PrescriptionToResponse(prescription *entity.Prescription) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	medications := make([]dto.MedicationResponse, len(prescription.Medications))
	for i, m := range prescription.Medications {
		medications[i] = dto.MedicationResponse{
			Name:         m.Name,
			Dosage:       m.Dosage,
			Frequency:    m.Frequency,
			Duration:     m.Duration,
			Instructions: m.Instructions,
		}
	}

	response := &dto.PrescriptionResponse{
		ID:           prescription.ID,
		PatientID:    prescription.PatientID,
		DoctorID:     prescription.DoctorID,
		TokenID:      prescription.TokenID,
		Diagnosis:    prescription.Diagnosis,
		Symptoms:     prescription.Symptoms,
		Notes:        prescription.Notes,
		Medications:  medications,
		FollowUpDate: prescription.FollowUpDate,
		CreatedAt:    prescription.CreatedAt,
	}

	if prescription.Patient.ID != uuid.Nil {
		response.PatientName = prescription.Patient.Name
	}
	if prescription.Doctor.ID != uuid.Nil {
		response.DoctorName = prescription.Doctor.FullName
	}

	return response
}

// PrescriptionsToResponses converts a slice of Prescription entities to DTOs
func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i, prescription := range prescriptions {
		resp := PrescriptionToResponse(&prescription)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
