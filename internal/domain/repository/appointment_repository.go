package repository

import (
	"time"

	"clinicdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentFilter narrows appointment listings. Zero values mean "no filter".
type AppointmentFilter struct {
	Date   *time.Time
	Status entity.AppointmentStatus
}

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	Find(db *gorm.DB, filter AppointmentFilter) ([]entity.Appointment, error)
	UpdateStatus(db *gorm.DB, appointment *entity.Appointment) error
}
