package converter

import (
	"clinicdesk/internal/delivery/dto"
	"clinicdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// TokenToResponse converts a Token entity to TokenResponse DTO
func TokenToResponse(token *entity.Token) *dto.TokenResponse {
	if token == nil {
		return nil
	}

	response := &dto.TokenResponse{
		ID:          token.ID,
		DayKey:      token.DayKey,
		TokenNumber: token.TokenNumber,
		PatientID:   token.PatientID,
		Status:      string(token.Status),
		Priority:    string(token.Priority),
		IssuedAt:    token.IssuedAt,
		IssuedBy:    token.IssuedBy,
		ConsultedBy: token.ConsultedBy,
		ConsultedAt: token.ConsultedAt,
	}

	// Include patient name if preloaded
	if token.Patient.ID != uuid.Nil {
		response.PatientName = token.Patient.Name
	}

	return response
}

// TokensToResponses converts a slice of Token entities to DTOs
func TokensToResponses(tokens []entity.Token) []dto.TokenResponse {
	responses := make([]dto.TokenResponse, len(tokens))
	for i, token := range tokens {
		resp := TokenToResponse(&token)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
