package repository

import (
	"errors"
	"time"

	"clinicdesk/internal/domain/entity"
	domainRepo "clinicdesk/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tokenRepository struct{}

func NewTokenRepository() domainRepo.TokenRepository {
	return &tokenRepository{}
}

func (r *tokenRepository) Create(db *gorm.DB, token *entity.Token) error {
	return db.Create(token).Error
}

func (r *tokenRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Token, error) {
	var token entity.Token
	err := db.Preload("Patient").Where("id = ?", id).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) FindAll(db *gorm.DB) ([]entity.Token, error) {
	var tokens []entity.Token
	err := db.Preload("Patient").Order("issued_at DESC").Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// FindByIssuedRange returns tokens issued in [from, to), ascending by issue
// time. Used for the today's-queue view.
func (r *tokenRepository) FindByIssuedRange(db *gorm.DB, from, to time.Time) ([]entity.Token, error) {
	var tokens []entity.Token
	err := db.Preload("Patient").
		Where("issued_at >= ? AND issued_at < ?", from, to).
		Order("issued_at ASC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *tokenRepository) UpdateStatus(db *gorm.DB, token *entity.Token) error {
	return db.Model(token).
		Select("status", "consulted_by", "consulted_at").
		Updates(map[string]interface{}{
			"status":       token.Status,
			"consulted_by": token.ConsultedBy,
			"consulted_at": token.ConsultedAt,
		}).Error
}

func (r *tokenRepository) CountByIssuedRange(db *gorm.DB, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.Token{}).
		Where("issued_at >= ? AND issued_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *tokenRepository) CountOpenByIssuedRange(db *gorm.DB, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.Token{}).
		Where("issued_at >= ? AND issued_at < ?", from, to).
		Where("status IN ?", []entity.TokenStatus{entity.TokenStatusWaiting, entity.TokenStatusInProgress}).
		Count(&count).Error
	return count, err
}

func (r *tokenRepository) MaxNumberForDay(db *gorm.DB, dayKey string) (int, error) {
	var max int
	err := db.Model(&entity.Token{}).
		Select("COALESCE(MAX(token_number), 0)").
		Where("day_key = ?", dayKey).
		Scan(&max).Error
	return max, err
}

// CurrentInProgressNumber returns the highest token number currently being
// consulted for the day, 0 when no consultation is running.
func (r *tokenRepository) CurrentInProgressNumber(db *gorm.DB, dayKey string) (int, error) {
	var number int
	err := db.Model(&entity.Token{}).
		Select("COALESCE(MAX(token_number), 0)").
		Where("day_key = ? AND status = ?", dayKey, entity.TokenStatusInProgress).
		Scan(&number).Error
	return number, err
}
