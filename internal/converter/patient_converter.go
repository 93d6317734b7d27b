package converter

import (
	"clinicdesk/internal/delivery/dto"
	"clinicdesk/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:               patient.ID,
		Name:             patient.Name,
		Age:              patient.Age,
		Gender:           patient.Gender,
		Phone:            patient.Phone,
		Email:            patient.Email,
		Address:          patient.Address,
		EmergencyContact: patient.EmergencyContact,
		BloodGroup:       patient.BloodGroup,
		Allergies:        patient.Allergies,
		MedicalHistory:   patient.MedicalHistory,
		RegisteredAt:     patient.RegisteredAt,
		RegisteredBy:     patient.RegisteredBy,
	}
}

// PatientsToResponses converts a slice of Patient entities to DTOs
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i, patient := range patients {
		resp := PatientToResponse(&patient)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
