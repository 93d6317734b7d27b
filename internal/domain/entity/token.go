package entity

import (
	"time"

	"github.com/google/uuid"
)

// TokenStatus represents the lifecycle state of a queue token
type TokenStatus string

const (
	TokenStatusWaiting    TokenStatus = "waiting"
	TokenStatusInProgress TokenStatus = "in-progress"
	TokenStatusCompleted  TokenStatus = "completed"
	TokenStatusCancelled  TokenStatus = "cancelled"
)

// TokenPriority flags a token as urgent. Priority never affects numbering,
// only downstream display order.
type TokenPriority string

const (
	TokenPriorityNormal TokenPriority = "normal"
	TokenPriorityUrgent TokenPriority = "urgent"
)

// DayKeyFormat is the calendar-date layout used to scope daily counters
const DayKeyFormat = "2006-01-02"

// Token is one patient's position in a day's consultation queue.
// TokenNumber is unique and strictly increasing within a day_key.
type Token struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DayKey      string        `gorm:"type:char(10);not null;uniqueIndex:idx_tokens_day_number,priority:1" json:"day_key"`
	TokenNumber int           `gorm:"not null;uniqueIndex:idx_tokens_day_number,priority:2" json:"token_number"`
	PatientID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"patient_id"`
	Status      TokenStatus   `gorm:"type:varchar(20);not null;default:'waiting';index" json:"status"`
	Priority    TokenPriority `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`
	IssuedAt    time.Time     `gorm:"autoCreateTime;index" json:"issued_at"`
	IssuedBy    uuid.UUID     `gorm:"type:uuid;not null" json:"issued_by"`
	ConsultedBy *uuid.UUID    `gorm:"type:uuid" json:"consulted_by,omitempty"`
	ConsultedAt *time.Time    `json:"consulted_at,omitempty"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Token) TableName() string {
	return "tokens"
}

// IsOpen reports whether the token can still move through the queue
func (t *Token) IsOpen() bool {
	return t.Status == TokenStatusWaiting || t.Status == TokenStatusInProgress
}
