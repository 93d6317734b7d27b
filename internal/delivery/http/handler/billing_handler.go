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

type BillingHandler struct {
	billingUsecase usecase.BillingUsecase
	validator      *validator.CustomValidator
}

func NewBillingHandler(billingUsecase usecase.BillingUsecase, validator *validator.CustomValidator) *BillingHandler {
	return &BillingHandler{
		billingUsecase: billingUsecase,
		validator:      validator,
	}
}

func (h *BillingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	bill, err := h.billingUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrNotAuthenticated:
			response.Unauthorized(w, "Authentication required")
		case usecase.ErrRoleForbidden:
			response.Forbidden(w, "Only front-desk staff can create bills")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrTokenNotFound:
			response.NotFound(w, "Token not found")
		case usecase.ErrTokenPatientMismatch:
			response.Error(w, http.StatusConflict, "Token does not belong to this patient", nil)
		case usecase.ErrTokenAlreadyBilled:
			response.Error(w, http.StatusConflict, "Token already has an open bill", nil)
		case usecase.ErrNegativeBillTotal:
			response.Error(w, http.StatusBadRequest, "Discount exceeds billable amount", nil)
		default:
			response.InternalServerError(w, "Failed to create bill")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Bill created successfully", bill)
}

func (h *BillingHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	bills, err := h.billingUsecase.GetAll(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrNotAuthenticated:
			response.Unauthorized(w, "Authentication required")
		case usecase.ErrRoleForbidden:
			response.Forbidden(w, "Access denied")
		default:
			response.InternalServerError(w, "Failed to get bills")
		}
		return
	}

	response.Success(w, http.StatusOK, "Bills retrieved successfully", bills)
}

func (h *BillingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid bill ID", nil)
		return
	}

	bill, err := h.billingUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrNotAuthenticated:
			response.Unauthorized(w, "Authentication required")
		case usecase.ErrRoleForbidden:
			response.Forbidden(w, "Access denied")
		case usecase.ErrBillNotFound:
			response.NotFound(w, "Bill not found")
		default:
			response.InternalServerError(w, "Failed to get bill")
		}
		return
	}

	response.Success(w, http.StatusOK, "Bill retrieved successfully", bill)
}

func (h *BillingHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid bill ID", nil)
		return
	}

	var req dto.PayBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	bill, err := h.billingUsecase.Pay(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrNotAuthenticated:
			response.Unauthorized(w, "Authentication required")
		case usecase.ErrRoleForbidden:
			response.Forbidden(w, "Only front-desk staff can settle bills")
		case usecase.ErrBillNotFound:
			response.NotFound(w, "Bill not found")
		case usecase.ErrBillNotPending:
			response.Error(w, http.StatusConflict, "Bill is not pending", nil)
		default:
			response.InternalServerError(w, "Failed to pay bill")
		}
		return
	}

	response.Success(w, http.StatusOK, "Bill paid successfully", bill)
}

func (h *BillingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid bill ID", nil)
		return
	}

	bill, err := h.billingUsecase.Cancel(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrNotAuthenticated:
			response.Unauthorized(w, "Authentication required")
		case usecase.ErrRoleForbidden:
			response.Forbidden(w, "Only front-desk staff can cancel bills")
		case usecase.ErrBillNotFound:
			response.NotFound(w, "Bill not found")
		case usecase.ErrBillNotPending:
			response.Error(w, http.StatusConflict, "Bill is not pending", nil)
		default:
			response.InternalServerError(w, "Failed to cancel bill")
		}
		return
	}

	response.Success(w, http.StatusOK, "Bill cancelled successfully", bill)
}
