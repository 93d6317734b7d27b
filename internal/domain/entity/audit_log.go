package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a staff action
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Details   string     `gorm:"type:text" json:"details,omitempty"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionUserLogin          = "user.login"
	AuditActionUserLogout         = "user.logout"
	AuditActionUserRegister       = "user.register"
	AuditActionPatientRegister    = "patient.register"
	AuditActionPatientUpdate      = "patient.update"
	AuditActionTokenIssue         = "token.issue"
	AuditActionTokenStatusChange  = "token.status_change"
	AuditActionPrescriptionCreate = "prescription.create"
	AuditActionBillCreate         = "bill.create"
	AuditActionBillPay            = "bill.pay"
	AuditActionBillCancel         = "bill.cancel"
	AuditActionAppointmentCreate  = "appointment.create"
	AuditActionAppointmentUpdate  = "appointment.update"
)
