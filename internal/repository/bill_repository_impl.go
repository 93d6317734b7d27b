package repository

import (
	"errors"
	"time"

	"clinicdesk/internal/domain/entity"
	domainRepo "clinicdesk/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type billRepository struct{}

func NewBillRepository() domainRepo.BillRepository {
	return &billRepository{}
}

func (r *billRepository) Create(db *gorm.DB, bill *entity.Bill) error {
	return db.Create(bill).Error
}

func (r *billRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := db.Preload("Patient").Preload("Token").Where("id = ?", id).First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) FindAll(db *gorm.DB) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := db.Preload("Patient").Order("created_at DESC").Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

// FindOpenByTokenID returns the token's non-cancelled bill if one exists.
func (r *billRepository) FindOpenByTokenID(db *gorm.DB, tokenID uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := db.Where("token_id = ? AND status != ?", tokenID, entity.BillStatusCancelled).
		First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) Update(db *gorm.DB, bill *entity.Bill) error {
	return db.Model(bill).
		Select("status", "payment_method", "paid_at").
		Updates(map[string]interface{}{
			"status":         bill.Status,
			"payment_method": bill.PaymentMethod,
			"paid_at":        bill.PaidAt,
		}).Error
}

func (r *billRepository) CountByStatus(db *gorm.DB, status entity.BillStatus) (int64, error) {
	var count int64
	err := db.Model(&entity.Bill{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// SumTotalsByCreatedRange sums paid bill totals created in [from, to).
// Used for today's-revenue reporting; pending and cancelled bills are not
// revenue.
func (r *billRepository) SumTotalsByCreatedRange(db *gorm.DB, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := db.Model(&entity.Bill{}).
		Select("COALESCE(SUM(total), 0)").
		Where("created_at >= ? AND created_at < ? AND status = ?", from, to, entity.BillStatusPaid).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
