package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterPatientRequest struct {
	Name             string   `json:"name" validate:"required,min=2,max=255"`
	Age              int      `json:"age" validate:"required,gte=0,lte=150"`
	Gender           string   `json:"gender" validate:"required,oneof=male female other"`
	Phone            string   `json:"phone" validate:"required,min=7,max=20"`
	Email            *string  `json:"email,omitempty" validate:"omitempty,email"`
	Address          string   `json:"address" validate:"required"`
	EmergencyContact string   `json:"emergency_contact" validate:"required,min=7,max=20"`
	BloodGroup       *string  `json:"blood_group,omitempty" validate:"omitempty,max=5"`
	Allergies        []string `json:"allergies,omitempty"`
	MedicalHistory   *string  `json:"medical_history,omitempty"`
}

// UpdatePatientRequest covers the mutable contact and medical fields only.
// Identity fields are fixed at registration.
type UpdatePatientRequest struct {
	Phone            *string  `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Email            *string  `json:"email,omitempty" validate:"omitempty,email"`
	Address          *string  `json:"address,omitempty"`
	EmergencyContact *string  `json:"emergency_contact,omitempty" validate:"omitempty,min=7,max=20"`
	BloodGroup       *string  `json:"blood_group,omitempty" validate:"omitempty,max=5"`
	Allergies        []string `json:"allergies,omitempty"`
	MedicalHistory   *string  `json:"medical_history,omitempty"`
}

// Response DTOs

type PatientResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Gender           string    `json:"gender"`
	Phone            string    `json:"phone"`
	Email            *string   `json:"email,omitempty"`
	Address          string    `json:"address"`
	EmergencyContact string    `json:"emergency_contact"`
	BloodGroup       *string   `json:"blood_group,omitempty"`
	Allergies        []string  `json:"allergies,omitempty"`
	MedicalHistory   *string   `json:"medical_history,omitempty"`
	RegisteredAt     time.Time `json:"registered_at"`
	RegisteredBy     uuid.UUID `json:"registered_by"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}
