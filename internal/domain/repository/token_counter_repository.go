package repository

import "gorm.io/gorm"

// TokenCounterRepository allocates per-day sequential token numbers.
// Increment must be a single atomic statement so that concurrent issuance
// can never observe the same pre-increment value.
type TokenCounterRepository interface {
	Increment(db *gorm.DB, dayKey string) (int, error)
	CurrentCount(db *gorm.DB, dayKey string) (int, error)
}
