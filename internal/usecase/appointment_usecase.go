package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicdesk/internal/converter"
	"clinicdesk/internal/delivery/dto"
	"clinicdesk/internal/domain/entity"
	"clinicdesk/internal/domain/repository"
	"clinicdesk/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrAppointmentInPast      = errors.New("cannot schedule an appointment in the past")
	ErrInvalidAppointmentMove = errors.New("invalid appointment status transition")
)

type AppointmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	List(ctx context.Context, date *time.Time, status string) (*dto.AppointmentListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	auditService    service.AuditService
	now             func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		auditService:    auditService,
		now:             time.Now,
	}
}

// Create schedules a future visit. Front-desk only.
func (u *appointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	actorID, err := requireRole(ctx, entity.RoleIDReceptionist)
	if err != nil {
		return nil, err
	}

	if req.ScheduledAt.Before(u.now()) {
		return nil, ErrAppointmentInPast
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointment := &entity.Appointment{
		PatientID:   req.PatientID,
		ScheduledAt: req.ScheduledAt,
		Type:        req.Type,
		Status:      entity.AppointmentStatusScheduled,
		Notes:       req.Notes,
		CreatedBy:   actorID,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &actorID, entity.AuditActionAppointmentCreate,
		fmt.Sprintf("Appointment (%s) for %s", req.Type, patient.Name),
		entity.JSON{"appointment_id": appointment.ID.String()}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Patient = *patient
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) List(ctx context.Context, date *time.Time, status string) (*dto.AppointmentListResponse, error) {
	if _, err := requireRole(ctx, entity.RoleIDDoctor, entity.RoleIDReceptionist); err != nil {
		return nil, err
	}

	filter := repository.AppointmentFilter{
		Date:   date,
		Status: entity.AppointmentStatus(status),
	}

	appointments, err := u.appointmentRepo.Find(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// UpdateStatus moves an appointment forward (confirm, complete) or cancels
// it while still open. Front-desk only.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	actorID, err := requireRole(ctx, entity.RoleIDReceptionist)
	if err != nil {
		return nil, err
	}

	next := entity.AppointmentStatus(req.Status)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	previous := appointment.Status
	if !appointmentMoveAllowed(previous, next) {
		return nil, ErrInvalidAppointmentMove
	}
	appointment.Status = next

	if err := u.appointmentRepo.UpdateStatus(tx, appointment); err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &actorID, entity.AuditActionAppointmentUpdate,
		fmt.Sprintf("Appointment %s: %s -> %s", appointment.ID, previous, next),
		entity.JSON{"appointment_id": appointment.ID.String(), "from": string(previous), "to": string(next)}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func appointmentMoveAllowed(from, to entity.AppointmentStatus) bool {
	switch to {
	case entity.AppointmentStatusConfirmed:
		return from == entity.AppointmentStatusScheduled
	case entity.AppointmentStatusCompleted:
		return from == entity.AppointmentStatusConfirmed
	case entity.AppointmentStatusCancelled:
		return from == entity.AppointmentStatusScheduled || from == entity.AppointmentStatusConfirmed
	default:
		return false
	}
}
