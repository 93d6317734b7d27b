package handler

import (
	"encoding/json"
	"net/http"

	"clinicdesk/internal/delivery/dto"
	"clinicdesk/internal/usecase"
	"clinicdesk/pkg/response"
	"clinicdesk/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type TokenHandler struct {
	tokenUsecase usecase.TokenUsecase
	validator    *validator.CustomValidator
}

func NewTokenHandler(tokenUsecase usecase.TokenUsecase, validator *validator.CustomValidator) *TokenHandler {
	return &TokenHandler{
		tokenUsecase: tokenUsecase,
		validator:    validator,
	}
}

func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.tokenUsecase.Issue(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrNotAuthenticated:
			response.Unauthorized(w, "Authentication required")
		case usecase.ErrRoleForbidden:
			response.Forbidden(w, "Only front-desk staff can issue tokens")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to issue token")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Token issued successfully", token)
}

// GetQueue returns today's queue by default; ?scope=all returns the full
// token history newest first.
func (h *TokenHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = usecase.TokenScopeToday
	}
	if scope != usecase.TokenScopeToday && scope != usecase.TokenScopeAll {
		response.Error(w, http.StatusBadRequest, "Invalid scope, use today or all", nil)
		return
	}

	tokens, err := h.tokenUsecase.GetQueue(r.Context(), scope)
	if err != nil {
		switch err {
		case usecase.ErrNotAuthenticated:
			response.Unauthorized(w, "Authentication required")
		case usecase.ErrRoleForbidden:
			response.Forbidden(w, "Access denied")
		default:
			response.InternalServerError(w, "Failed to get queue")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queue retrieved successfully", tokens)
}

func (h *TokenHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid token ID", nil)
		return
	}

	var req dto.UpdateTokenStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.tokenUsecase.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrNotAuthenticated:
			response.Unauthorized(w, "Authentication required")
		case usecase.ErrRoleForbidden:
			response.Forbidden(w, "Role not permitted for this transition")
		case usecase.ErrTokenNotFound:
			response.NotFound(w, "Token not found")
		case usecase.ErrInvalidTransition:
			response.Error(w, http.StatusConflict, "Invalid status transition", nil)
		default:
			response.InternalServerError(w, "Failed to update token")
		}
		return
	}

	response.Success(w, http.StatusOK, "Token updated successfully", token)
}

// Board serves the public waiting-room display. No authentication.
func (h *TokenHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.tokenUsecase.Board(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get queue board")
		return
	}

	response.Success(w, http.StatusOK, "Queue board retrieved successfully", board)
}
