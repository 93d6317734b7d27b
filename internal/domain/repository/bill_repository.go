package repository

import (
	"time"

	"clinicdesk/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BillRepository interface {
	Create(db *gorm.DB, bill *entity.Bill) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Bill, error)
	FindAll(db *gorm.DB) ([]entity.Bill, error)
	FindOpenByTokenID(db *gorm.DB, tokenID uuid.UUID) (*entity.Bill, error)
	Update(db *gorm.DB, bill *entity.Bill) error
	CountByStatus(db *gorm.DB, status entity.BillStatus) (int64, error)
	SumTotalsByCreatedRange(db *gorm.DB, from, to time.Time) (decimal.Decimal, error)
}
