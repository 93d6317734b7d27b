package entity

import "time"

// TokenCounter is the per-day numbering record. One row per calendar day,
// incremented atomically on every issuance.
type TokenCounter struct {
	DayKey      string    `gorm:"type:char(10);primaryKey" json:"day_key"`
	Count       int       `gorm:"not null;default:0" json:"count"`
	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

func (TokenCounter) TableName() string {
	return "token_counters"
}
