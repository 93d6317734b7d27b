package repository

import (
	"time"

	"clinicdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenRepository interface {
	Create(db *gorm.DB, token *entity.Token) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Token, error)
	FindAll(db *gorm.DB) ([]entity.Token, error)
	FindByIssuedRange(db *gorm.DB, from, to time.Time) ([]entity.Token, error)
	UpdateStatus(db *gorm.DB, token *entity.Token) error
	CountByIssuedRange(db *gorm.DB, from, to time.Time) (int64, error)
	CountOpenByIssuedRange(db *gorm.DB, from, to time.Time) (int64, error)
	MaxNumberForDay(db *gorm.DB, dayKey string) (int, error)
	CurrentInProgressNumber(db *gorm.DB, dayKey string) (int, error)
}
