package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type MedicationRequest struct {
	Name         string `json:"name" validate:"required"`
	Dosage       string `json:"dosage" validate:"required"`
	Frequency    string `json:"frequency" validate:"required"`
	Duration     string `json:"duration" validate:"required"`
	Instructions string `json:"instructions,omitempty"`
}

type CreatePrescriptionRequest struct {
	PatientID    uuid.UUID           `json:"patient_id" validate:"required"`
	TokenID      uuid.UUID           `json:"token_id" validate:"required"`
	Diagnosis    string              `json:"diagnosis" validate:"required"`
	Symptoms     string              `json:"symptoms" validate:"required"`
	Notes        *string             `json:"notes,omitempty"`
	Medications  []MedicationRequest `json:"medications" validate:"required,min=1,dive"`
	FollowUpDate *string             `json:"follow_up_date,omitempty"`
}

// Response DTOs

type MedicationResponse struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

type PrescriptionResponse struct {
	ID           uuid.UUID            `json:"id"`
	PatientID    uuid.UUID            `json:"patient_id"`
	PatientName  string               `json:"patient_name,omitempty"`
	DoctorID     uuid.UUID            `json:"doctor_id"`
	DoctorName   string               `json:"doctor_name,omitempty"`
	TokenID      uuid.UUID            `json:"token_id"`
	Diagnosis    string               `json:"diagnosis"`
	Symptoms     string               `json:"symptoms"`
	Notes        *string              `json:"notes,omitempty"`
	Medications  []MedicationResponse `json:"medications"`
	FollowUpDate *time.Time           `json:"follow_up_date,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int                    `json:"total"`
}
