package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type IssueTokenRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	Priority  string    `json:"priority" validate:"omitempty,oneof=normal urgent"`
}

type UpdateTokenStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in-progress completed cancelled"`
}

// Response DTOs

type TokenResponse struct {
	ID          uuid.UUID  `json:"id"`
	DayKey      string     `json:"day_key"`
	TokenNumber int        `json:"token_number"`
	PatientID   uuid.UUID  `json:"patient_id"`
	PatientName string     `json:"patient_name,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	IssuedAt    time.Time  `json:"issued_at"`
	IssuedBy    uuid.UUID  `json:"issued_by"`
	ConsultedBy *uuid.UUID `json:"consulted_by,omitempty"`
	ConsultedAt *time.Time `json:"consulted_at,omitempty"`
}

type TokenListResponse struct {
	Tokens []TokenResponse `json:"tokens"`
	Total  int             `json:"total"`
}
