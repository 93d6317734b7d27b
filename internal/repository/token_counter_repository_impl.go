package repository

import (
	"errors"

	"clinicdesk/internal/domain/entity"
	domainRepo "clinicdesk/internal/domain/repository"

	"gorm.io/gorm"
)

type tokenCounterRepository struct{}

func NewTokenCounterRepository() domainRepo.TokenCounterRepository {
	return &tokenCounterRepository{}
}

// Increment bumps the day's counter and returns the new value in one
// statement. The upsert is serialized by Postgres on the primary key, so two
// concurrent issuances can never receive the same number. A missing row is
// created with count 1.
func (r *tokenCounterRepository) Increment(db *gorm.DB, dayKey string) (int, error) {
	var count int
	err := db.Raw(`
		INSERT INTO token_counters (day_key, count, last_updated)
		VALUES (?, 1, NOW())
		ON CONFLICT (day_key)
		DO UPDATE SET count = token_counters.count + 1, last_updated = NOW()
		RETURNING count
	`, dayKey).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *tokenCounterRepository) CurrentCount(db *gorm.DB, dayKey string) (int, error) {
	var counter entity.TokenCounter
	err := db.Where("day_key = ?", dayKey).First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return counter.Count, nil
}
