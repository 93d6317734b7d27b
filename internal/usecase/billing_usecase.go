package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicdesk/internal/converter"
	"clinicdesk/internal/delivery/dto"
	"clinicdesk/internal/domain/entity"
	"clinicdesk/internal/domain/repository"
	"clinicdesk/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBillNotFound       = errors.New("bill not found")
	ErrTokenAlreadyBilled = errors.New("token already has an open bill")
	ErrBillNotPending     = errors.New("bill is not pending")
	ErrNegativeBillTotal  = errors.New("discount exceeds billable amount")
)

var percentDivisor = decimal.NewFromInt(100)

// defaultTaxRate applies when a bill request carries no tax rate
var defaultTaxRate = decimal.NewFromInt(18)

type BillingUsecase interface {
	Create(ctx context.Context, req *dto.CreateBillRequest) (*dto.BillResponse, error)
	GetAll(ctx context.Context) (*dto.BillListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.BillResponse, error)
	Pay(ctx context.Context, id uuid.UUID, req *dto.PayBillRequest) (*dto.BillResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.BillResponse, error)
}

type billingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	billRepo     repository.BillRepository
	patientRepo  repository.PatientRepository
	tokenRepo    repository.TokenRepository
	auditService service.AuditService
	now          func() time.Time
}

func NewBillingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	billRepo repository.BillRepository,
	patientRepo repository.PatientRepository,
	tokenRepo repository.TokenRepository,
	auditService service.AuditService,
) BillingUsecase {
	return &billingUsecase{
		db:           db,
		log:          log,
		billRepo:     billRepo,
		patientRepo:  patientRepo,
		tokenRepo:    tokenRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

// ComputeBillAmounts derives line totals and the bill totals from the raw
// items. Client-supplied totals are never trusted. Invariant:
// total = subtotal + tax - discount, tax = subtotal * taxRate / 100.
func ComputeBillAmounts(items []dto.BillItemRequest, taxRate, discount decimal.Decimal) (entity.BillItemList, decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	billItems := make(entity.BillItemList, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		billItems[i] = entity.BillItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       lineTotal,
		}
		subtotal = subtotal.Add(lineTotal)
	}

	tax := subtotal.Mul(taxRate).Div(percentDivisor).Round(2)
	total := subtotal.Add(tax).Sub(discount)
	return billItems, subtotal, tax, total
}

// Create generates a bill at checkout. Front-desk only. A token can carry at
// most one non-cancelled bill.
func (u *billingUsecase) Create(ctx context.Context, req *dto.CreateBillRequest) (*dto.BillResponse, error) {
	actorID, err := requireRole(ctx, entity.RoleIDReceptionist)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	token, err := u.tokenRepo.FindByID(tx, req.TokenID)
	if err != nil {
		u.log.Warnf("Failed to find token %s: %+v", req.TokenID, err)
		return nil, err
	}
	if token == nil {
		return nil, ErrTokenNotFound
	}
	if token.PatientID != req.PatientID {
		return nil, ErrTokenPatientMismatch
	}

	existing, err := u.billRepo.FindOpenByTokenID(tx, req.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check existing bill for token %s: %+v", req.TokenID, err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrTokenAlreadyBilled
	}

	taxRate := defaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	items, subtotal, tax, total := ComputeBillAmounts(req.Items, taxRate, req.Discount)
	if total.IsNegative() {
		return nil, ErrNegativeBillTotal
	}

	bill := &entity.Bill{
		PatientID:      req.PatientID,
		TokenID:        req.TokenID,
		PrescriptionID: req.PrescriptionID,
		Items:          items,
		Subtotal:       subtotal,
		TaxRate:        taxRate,
		Tax:            tax,
		Discount:       req.Discount,
		Total:          total,
		Status:         entity.BillStatusPending,
		CreatedBy:      actorID,
	}

	if err := u.billRepo.Create(tx, bill); err != nil {
		u.log.Warnf("Failed to create bill: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &actorID, entity.AuditActionBillCreate,
		fmt.Sprintf("Bill of %s for %s (token #%d)", total.StringFixed(2), patient.Name, token.TokenNumber),
		entity.JSON{"bill_id": bill.ID.String(), "total": total.StringFixed(2)}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Bill created: id=%s, patient=%s, total=%s", bill.ID, req.PatientID, total.StringFixed(2))

	bill.Patient = *patient
	return converter.BillToResponse(bill), nil
}

func (u *billingUsecase) GetAll(ctx context.Context) (*dto.BillListResponse, error) {
	if _, err := requireRole(ctx, entity.RoleIDDoctor, entity.RoleIDReceptionist); err != nil {
		return nil, err
	}

	bills, err := u.billRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list bills: %+v", err)
		return nil, err
	}

	return &dto.BillListResponse{
		Bills: converter.BillsToResponses(bills),
		Total: len(bills),
	}, nil
}

func (u *billingUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.BillResponse, error) {
	if _, err := requireRole(ctx, entity.RoleIDDoctor, entity.RoleIDReceptionist); err != nil {
		return nil, err
	}

	bill, err := u.billRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find bill %s: %+v", id, err)
		return nil, err
	}
	if bill == nil {
		return nil, ErrBillNotFound
	}

	return converter.BillToResponse(bill), nil
}

// Pay settles a pending bill with the given payment method
func (u *billingUsecase) Pay(ctx context.Context, id uuid.UUID, req *dto.PayBillRequest) (*dto.BillResponse, error) {
	actorID, err := requireRole(ctx, entity.RoleIDReceptionist)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	bill, err := u.billRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find bill %s: %+v", id, err)
		return nil, err
	}
	if bill == nil {
		return nil, ErrBillNotFound
	}
	if bill.Status != entity.BillStatusPending {
		return nil, ErrBillNotPending
	}

	paidAt := u.now()
	bill.Status = entity.BillStatusPaid
	bill.PaymentMethod = &req.PaymentMethod
	bill.PaidAt = &paidAt

	if err := u.billRepo.Update(tx, bill); err != nil {
		u.log.Warnf("Failed to update bill %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &actorID, entity.AuditActionBillPay,
		fmt.Sprintf("Bill %s paid via %s", bill.ID, req.PaymentMethod),
		entity.JSON{"bill_id": bill.ID.String(), "payment_method": req.PaymentMethod}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.BillToResponse(bill), nil
}

// Cancel voids a pending bill. The token becomes billable again.
func (u *billingUsecase) Cancel(ctx context.Context, id uuid.UUID) (*dto.BillResponse, error) {
	actorID, err := requireRole(ctx, entity.RoleIDReceptionist)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	bill, err := u.billRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find bill %s: %+v", id, err)
		return nil, err
	}
	if bill == nil {
		return nil, ErrBillNotFound
	}
	if bill.Status != entity.BillStatusPending {
		return nil, ErrBillNotPending
	}

	bill.Status = entity.BillStatusCancelled

	if err := u.billRepo.Update(tx, bill); err != nil {
		u.log.Warnf("Failed to update bill %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &actorID, entity.AuditActionBillCancel,
		fmt.Sprintf("Bill %s cancelled", bill.ID),
		entity.JSON{"bill_id": bill.ID.String()}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.BillToResponse(bill), nil
}
