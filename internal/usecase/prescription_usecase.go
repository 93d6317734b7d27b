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
	ErrTokenPatientMismatch   = errors.New("token does not belong to this patient")
	ErrTokenNotInConsultation = errors.New("token has not reached consultation")
	ErrInvalidDateFormat      = errors.New("invalid date format, use YYYY-MM-DD")
)

type PrescriptionUsecase interface {
	Create(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	List(ctx context.Context, patientID *uuid.UUID) (*dto.PrescriptionListResponse, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	patientRepo      repository.PatientRepository
	tokenRepo        repository.TokenRepository
	auditService     service.AuditService
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	patientRepo repository.PatientRepository,
	tokenRepo repository.TokenRepository,
	auditService service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		prescriptionRepo: prescriptionRepo,
		patientRepo:      patientRepo,
		tokenRepo:        tokenRepo,
		auditService:     auditService,
	}
}

// Create writes a prescription. Doctor-only; the doctor identity comes from
// the request context, never from the payload. The referenced token must
// belong to the same patient and have reached consultation.
func (u *prescriptionUsecase) Create(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	doctorID, err := requireRole(ctx, entity.RoleIDDoctor)
	if err != nil {
		return nil, err
	}

	var followUpDate *time.Time
	if req.FollowUpDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.FollowUpDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		followUpDate = &parsed
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

	token, err := u.tokenRepo.FindByID(tx, req.TokenID)
	if err != nil {
		u.log.Warnf("Failed to find token %s: %+v", req.TokenID, err)
		return nil, err
	}
	if token == nil {
		return nil, ErrTokenNotFound
	}
	if token.PatientID != req.PatientID {
		return nil, ErrTokenPatientMismatch
	}
	if token.Status != entity.TokenStatusInProgress && token.Status != entity.TokenStatusCompleted {
		return nil, ErrTokenNotInConsultation
	}

	medications := make(entity.MedicationList, len(req.Medications))
	for i, m := range req.Medications {
		medications[i] = entity.Medication{
			Name:         m.Name,
			Dosage:       m.Dosage,
			Frequency:    m.Frequency,
			Duration:     m.Duration,
			Instructions: m.Instructions,
		}
	}

	prescription := &entity.Prescription{
		PatientID:    req.PatientID,
		DoctorID:     doctorID,
		TokenID:      req.TokenID,
		Diagnosis:    req.Diagnosis,
		Symptoms:     req.Symptoms,
		Notes:        req.Notes,
		Medications:  medications,
		FollowUpDate: followUpDate,
	}

	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &doctorID, entity.AuditActionPrescriptionCreate,
		fmt.Sprintf("Prescription for %s (token #%d)", patient.Name, token.TokenNumber),
		entity.JSON{"prescription_id": prescription.ID.String(), "patient_id": patient.ID.String()}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	prescription.Patient = *patient
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) List(ctx context.Context, patientID *uuid.UUID) (*dto.PrescriptionListResponse, error) {
	if _, err := requireRole(ctx, entity.RoleIDDoctor, entity.RoleIDReceptionist); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)

	var prescriptions []entity.Prescription
	var err error
	if patientID != nil {
		prescriptions, err = u.prescriptionRepo.FindByPatientID(db, *patientID)
	} else {
		prescriptions, err = u.prescriptionRepo.FindAll(db)
	}
	if err != nil {
		u.log.Warnf("Failed to list prescriptions: %+v", err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
	}, nil
}
