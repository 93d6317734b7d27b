package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the scheduling state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment type constants
const (
	AppointmentTypeConsultation = "consultation"
	AppointmentTypeFollowUp     = "follow-up"
	AppointmentTypeCheckup      = "checkup"
)

// Appointment is a scheduled future visit for a patient
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ScheduledAt time.Time         `gorm:"not null;index" json:"scheduled_at"`
	Type        string            `gorm:"type:varchar(20);not null" json:"type"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Notes       *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	CreatedBy   uuid.UUID         `gorm:"type:uuid;not null" json:"created_by"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}
