package usecase

import (
	"context"
	"testing"
	"time"

	"clinicdesk/internal/delivery/dto"
	"clinicdesk/internal/delivery/http/middleware"
	"clinicdesk/internal/domain/entity"

	"github.com/google/uuid"
)

func prescriptionFixture(t *testing.T, txCount int) (*prescriptionUsecase, *fakePrescriptionRepo, uuid.UUID, uuid.UUID) {
	t.Helper()
	patients := newFakePatientRepo()
	tokens := &fakeTokenRepo{}
	prescriptions := &fakePrescriptionRepo{}

	patientID := patients.add("Asha Rao")
	token := &entity.Token{
		DayKey:      "2026-08-27",
		TokenNumber: 2,
		PatientID:   patientID,
		Status:      entity.TokenStatusInProgress,
		IssuedAt:    time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC),
	}
	if err := tokens.Create(nil, token); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	u := NewPrescriptionUsecase(newTestDB(t, txCount), testLogger(), prescriptions, patients, tokens, &fakeAuditService{}).(*prescriptionUsecase)
	return u, prescriptions, patientID, token.ID
}

func amoxicillin() []dto.MedicationRequest {
	return []dto.MedicationRequest{
		{Name: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "5 days"},
	}
}

func TestCreatePrescriptionStampsDoctorFromContext(t *testing.T) {
	u, prescriptions, patientID, tokenID := prescriptionFixture(t, 1)

	doctorID := uuid.New()
	ctx := middleware.WithActor(context.Background(), doctorID, entity.RoleIDDoctor)

	resp, err := u.Create(ctx, &dto.CreatePrescriptionRequest{
		PatientID:    patientID,
		TokenID:      tokenID,
		Diagnosis:    "Acute pharyngitis",
		Symptoms:     "Sore throat, fever",
		Medications:  amoxicillin(),
		FollowUpDate: strPtr("2026-09-03"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.DoctorID != doctorID {
		t.Errorf("doctor ID = %s, want the context actor %s", resp.DoctorID, doctorID)
	}
	if resp.FollowUpDate == nil || resp.FollowUpDate.Format("2006-01-02") != "2026-09-03" {
		t.Errorf("follow-up date = %v, want 2026-09-03", resp.FollowUpDate)
	}
	if len(prescriptions.prescriptions) != 1 {
		t.Fatalf("stored %d prescriptions, want 1", len(prescriptions.prescriptions))
	}
	if got := prescriptions.prescriptions[0].DoctorID; got != doctorID {
		t.Errorf("stored doctor ID = %s, want %s", got, doctorID)
	}
}

func TestCreatePrescriptionRejectsReceptionist(t *testing.T) {
	u, prescriptions, patientID, tokenID := prescriptionFixture(t, 0)

	_, err := u.Create(receptionistCtx(), &dto.CreatePrescriptionRequest{
		PatientID:   patientID,
		TokenID:     tokenID,
		Diagnosis:   "n/a",
		Symptoms:    "n/a",
		Medications: amoxicillin(),
	})
	if err != ErrRoleForbidden {
		t.Fatalf("err = %v, want ErrRoleForbidden", err)
	}
	if len(prescriptions.prescriptions) != 0 {
		t.Error("prescription stored despite role refusal")
	}
}

func TestCreatePrescriptionTokenMismatch(t *testing.T) {
	u, _, _, tokenID := prescriptionFixture(t, 1)

	otherID := u.patientRepo.(*fakePatientRepo).add("Someone Else")
	_, err := u.Create(doctorCtx(), &dto.CreatePrescriptionRequest{
		PatientID:   otherID,
		TokenID:     tokenID,
		Diagnosis:   "n/a",
		Symptoms:    "n/a",
		Medications: amoxicillin(),
	})
	if err != ErrTokenPatientMismatch {
		t.Fatalf("err = %v, want ErrTokenPatientMismatch", err)
	}
}

func TestCreatePrescriptionRequiresConsultation(t *testing.T) {
	u, prescriptions, patientID, _ := prescriptionFixture(t, 2)
	tokens := u.tokenRepo.(*fakeTokenRepo)

	for _, status := range []entity.TokenStatus{entity.TokenStatusWaiting, entity.TokenStatusCancelled} {
		token := &entity.Token{DayKey: "2026-08-27", TokenNumber: 5, PatientID: patientID, Status: status}
		if err := tokens.Create(nil, token); err != nil {
			t.Fatalf("seed %s token: %v", status, err)
		}

		_, err := u.Create(doctorCtx(), &dto.CreatePrescriptionRequest{
			PatientID:   patientID,
			TokenID:     token.ID,
			Diagnosis:   "n/a",
			Symptoms:    "n/a",
			Medications: amoxicillin(),
		})
		if err != ErrTokenNotInConsultation {
			t.Fatalf("%s token: err = %v, want ErrTokenNotInConsultation", status, err)
		}
	}
	if len(prescriptions.prescriptions) != 0 {
		t.Error("prescription stored against a token outside consultation")
	}
}

func TestCreatePrescriptionBadFollowUpDate(t *testing.T) {
	u, _, patientID, tokenID := prescriptionFixture(t, 0)

	_, err := u.Create(doctorCtx(), &dto.CreatePrescriptionRequest{
		PatientID:    patientID,
		TokenID:      tokenID,
		Diagnosis:    "n/a",
		Symptoms:     "n/a",
		Medications:  amoxicillin(),
		FollowUpDate: strPtr("03-09-2026"),
	})
	if err != ErrInvalidDateFormat {
		t.Fatalf("err = %v, want ErrInvalidDateFormat", err)
	}
}

func TestListPrescriptionsFiltersByPatient(t *testing.T) {
	u, _, patientID, tokenID := prescriptionFixture(t, 2)
	ctx := doctorCtx()

	if _, err := u.Create(ctx, &dto.CreatePrescriptionRequest{
		PatientID:   patientID,
		TokenID:     tokenID,
		Diagnosis:   "n/a",
		Symptoms:    "n/a",
		Medications: amoxicillin(),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Second patient with their own token and prescription
	tokens := u.tokenRepo.(*fakeTokenRepo)
	otherPatient := u.patientRepo.(*fakePatientRepo).add("Binod Shah")
	otherToken := &entity.Token{DayKey: "2026-08-27", TokenNumber: 3, PatientID: otherPatient, Status: entity.TokenStatusInProgress}
	if err := tokens.Create(nil, otherToken); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	if _, err := u.Create(ctx, &dto.CreatePrescriptionRequest{
		PatientID:   otherPatient,
		TokenID:     otherToken.ID,
		Diagnosis:   "n/a",
		Symptoms:    "n/a",
		Medications: amoxicillin(),
	}); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	all, err := u.List(ctx, nil)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if all.Total != 2 {
		t.Errorf("all prescriptions = %d, want 2", all.Total)
	}

	filtered, err := u.List(ctx, &patientID)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if filtered.Total != 1 {
		t.Errorf("filtered prescriptions = %d, want 1", filtered.Total)
	}
}
