package usecase

import (
	"sort"
	"sync"
	"testing"
	"time"

	"clinicdesk/internal/delivery/dto"
	"clinicdesk/internal/domain/entity"

	"github.com/google/uuid"
)

func newTokenUsecaseForTest(t *testing.T, txCount int) (*tokenUsecase, *fakePatientRepo, *fakeTokenRepo, *fakeQueueBoard, *fakeAuditService) {
	t.Helper()
	patients := newFakePatientRepo()
	tokens := &fakeTokenRepo{}
	board := &fakeQueueBoard{}
	audit := &fakeAuditService{}
	u := NewTokenUsecase(newTestDB(t, txCount), testLogger(), tokens, newFakeCounterRepo(), patients, board, audit).(*tokenUsecase)
	return u, patients, tokens, board, audit
}

func TestIssueAssignsSequentialNumbers(t *testing.T) {
	u, patients, _, board, audit := newTokenUsecaseForTest(t, 3)
	u.now = fixedClock(time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC))
	patientID := patients.add("Asha Rao")

	ctx := receptionistCtx()
	for want := 1; want <= 3; want++ {
		resp, err := u.Issue(ctx, &dto.IssueTokenRequest{PatientID: patientID})
		if err != nil {
			t.Fatalf("Issue #%d: %v", want, err)
		}
		if resp.TokenNumber != want {
			t.Errorf("token number = %d, want %d", resp.TokenNumber, want)
		}
		if resp.DayKey != "2026-08-27" {
			t.Errorf("day key = %q, want 2026-08-27", resp.DayKey)
		}
		if resp.Status != string(entity.TokenStatusWaiting) {
			t.Errorf("status = %q, want waiting", resp.Status)
		}
	}

	if board.issued != 3 {
		t.Errorf("board issued updates = %d, want 3", board.issued)
	}
	if !audit.has(entity.AuditActionTokenIssue) {
		t.Error("expected a token.issue audit record")
	}
}

func TestIssueRestartsNumberingEachDay(t *testing.T) {
	u, patients, _, _, _ := newTokenUsecaseForTest(t, 4)
	patientID := patients.add("Binod Shah")
	ctx := receptionistCtx()

	beforeMidnight := time.Date(2026, 8, 27, 23, 59, 0, 0, time.UTC)
	u.now = fixedClock(beforeMidnight)
	for i := 0; i < 3; i++ {
		if _, err := u.Issue(ctx, &dto.IssueTokenRequest{PatientID: patientID}); err != nil {
			t.Fatalf("Issue on day one: %v", err)
		}
	}

	u.now = fixedClock(beforeMidnight.Add(2 * time.Minute))
	resp, err := u.Issue(ctx, &dto.IssueTokenRequest{PatientID: patientID})
	if err != nil {
		t.Fatalf("Issue on day two: %v", err)
	}
	if resp.DayKey != "2026-08-28" {
		t.Errorf("day key = %q, want 2026-08-28", resp.DayKey)
	}
	if resp.TokenNumber != 1 {
		t.Errorf("first token of the new day = %d, want 1", resp.TokenNumber)
	}
}

func TestIssueConcurrentNumbersAreUnique(t *testing.T) {
	const n = 20

	u, patients, _, _, _ := newTokenUsecaseForTest(t, n)
	u.now = fixedClock(time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC))
	patientID := patients.add("Chitra Nair")
	ctx := receptionistCtx()

	numbers := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := u.Issue(ctx, &dto.IssueTokenRequest{PatientID: patientID})
			if err != nil {
				t.Errorf("concurrent Issue: %v", err)
				return
			}
			numbers <- resp.TokenNumber
		}()
	}
	wg.Wait()
	close(numbers)

	var got []int
	for num := range numbers {
		got = append(got, num)
	}
	sort.Ints(got)
	if len(got) != n {
		t.Fatalf("issued %d tokens, want %d", len(got), n)
	}
	for i, num := range got {
		if num != i+1 {
			t.Fatalf("numbers not a dense 1..%d sequence: %v", n, got)
		}
	}
}

func TestIssueRejectsDoctor(t *testing.T) {
	u, patients, tokens, _, _ := newTokenUsecaseForTest(t, 0)
	patientID := patients.add("Divya Iyer")

	if _, err := u.Issue(doctorCtx(), &dto.IssueTokenRequest{PatientID: patientID}); err != ErrRoleForbidden {
		t.Fatalf("Issue as doctor: err = %v, want ErrRoleForbidden", err)
	}
	if len(tokens.tokens) != 0 {
		t.Errorf("token was created despite role refusal")
	}
}

func TestIssueUnknownPatient(t *testing.T) {
	u, patients, _, _, _ := newTokenUsecaseForTest(t, 1)
	patients.add("someone else")

	_, err := u.Issue(receptionistCtx(), &dto.IssueTokenRequest{PatientID: uuid.New()})
	if err != ErrPatientNotFound {
		t.Fatalf("err = %v, want ErrPatientNotFound", err)
	}
}

func TestUpdateStatusConsultationFlow(t *testing.T) {
	u, patients, _, board, _ := newTokenUsecaseForTest(t, 6)
	u.now = fixedClock(time.Date(2026, 8, 27, 11, 0, 0, 0, time.UTC))
	patientID := patients.add("Esha Verma")

	issued, err := u.Issue(receptionistCtx(), &dto.IssueTokenRequest{PatientID: patientID})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Receptionists cannot start a consultation
	if _, err := u.UpdateStatus(receptionistCtx(), issued.ID, &dto.UpdateTokenStatusRequest{Status: "in-progress"}); err != ErrRoleForbidden {
		t.Fatalf("start by receptionist: err = %v, want ErrRoleForbidden", err)
	}

	started, err := u.UpdateStatus(doctorCtx(), issued.ID, &dto.UpdateTokenStatusRequest{Status: "in-progress"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.ConsultedBy == nil || started.ConsultedAt == nil {
		t.Error("in-progress move must stamp consulted_by and consulted_at")
	}
	if board.started != 1 {
		t.Errorf("board started updates = %d, want 1", board.started)
	}

	// Cannot skip straight to in-progress again
	if _, err := u.UpdateStatus(doctorCtx(), issued.ID, &dto.UpdateTokenStatusRequest{Status: "in-progress"}); err != ErrInvalidTransition {
		t.Fatalf("restart: err = %v, want ErrInvalidTransition", err)
	}

	done, err := u.UpdateStatus(doctorCtx(), issued.ID, &dto.UpdateTokenStatusRequest{Status: "completed"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != string(entity.TokenStatusCompleted) {
		t.Errorf("status = %q, want completed", done.Status)
	}

	// Closed tokens cannot be cancelled
	if _, err := u.UpdateStatus(receptionistCtx(), issued.ID, &dto.UpdateTokenStatusRequest{Status: "cancelled"}); err != ErrInvalidTransition {
		t.Fatalf("cancel after completion: err = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateStatusCancelWaiting(t *testing.T) {
	u, patients, _, board, _ := newTokenUsecaseForTest(t, 2)
	u.now = fixedClock(time.Date(2026, 8, 27, 11, 0, 0, 0, time.UTC))
	patientID := patients.add("Farid Khan")

	issued, err := u.Issue(receptionistCtx(), &dto.IssueTokenRequest{PatientID: patientID})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cancelled, err := u.UpdateStatus(receptionistCtx(), issued.ID, &dto.UpdateTokenStatusRequest{Status: "cancelled"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != string(entity.TokenStatusCancelled) {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if board.left != 1 {
		t.Errorf("board left-queue updates = %d, want 1", board.left)
	}
}

func TestGetQueueTodayScopesByClock(t *testing.T) {
	u, patients, _, _, _ := newTokenUsecaseForTest(t, 2)
	patientID := patients.add("Gita Menon")
	ctx := receptionistCtx()

	u.now = fixedClock(time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC))
	if _, err := u.Issue(ctx, &dto.IssueTokenRequest{PatientID: patientID}); err != nil {
		t.Fatalf("Issue yesterday: %v", err)
	}

	u.now = fixedClock(time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC))
	if _, err := u.Issue(ctx, &dto.IssueTokenRequest{PatientID: patientID}); err != nil {
		t.Fatalf("Issue today: %v", err)
	}

	today, err := u.GetQueue(ctx, TokenScopeToday)
	if err != nil {
		t.Fatalf("GetQueue today: %v", err)
	}
	if today.Total != 1 {
		t.Errorf("today's queue size = %d, want 1", today.Total)
	}

	all, err := u.GetQueue(ctx, TokenScopeAll)
	if err != nil {
		t.Fatalf("GetQueue all: %v", err)
	}
	if all.Total != 2 {
		t.Errorf("full history size = %d, want 2", all.Total)
	}
}
