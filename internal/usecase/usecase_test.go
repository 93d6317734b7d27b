package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"clinicdesk/internal/delivery/http/middleware"
	"clinicdesk/internal/domain/entity"
	"clinicdesk/internal/domain/repository"
	"clinicdesk/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a gorm handle backed by sqlmock. The repositories under
// test are in-memory fakes, so the mock only has to accept transaction
// control; txCount bounds how many transactions a test may open.
func newTestDB(t *testing.T, txCount int) *gorm.DB {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < txCount; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func receptionistCtx() context.Context {
	return middleware.WithActor(context.Background(), uuid.New(), entity.RoleIDReceptionist)
}

func doctorCtx() context.Context {
	return middleware.WithActor(context.Background(), uuid.New(), entity.RoleIDDoctor)
}

// fakePatientRepo

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]entity.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]entity.Patient)}
}

func (r *fakePatientRepo) add(name string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.patients[id] = entity.Patient{ID: id, Name: name, Age: 30, Gender: entity.GenderFemale}
	return id
}

func (r *fakePatientRepo) Create(_ *gorm.DB, patient *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	patient.ID = uuid.New()
	patient.RegisteredAt = time.Now()
	r.patients[patient.ID] = *patient
	return nil
}

func (r *fakePatientRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePatientRepo) FindAll(_ *gorm.DB) ([]entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePatientRepo) Update(_ *gorm.DB, patient *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients[patient.ID] = *patient
	return nil
}

func (r *fakePatientRepo) CountAll(_ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.patients)), nil
}

// fakeCounterRepo mirrors the atomic upsert: one bump per call, scoped by day

type fakeCounterRepo struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{counts: make(map[string]int)}
}

func (r *fakeCounterRepo) Increment(_ *gorm.DB, dayKey string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[dayKey]++
	return r.counts[dayKey], nil
}

func (r *fakeCounterRepo) CurrentCount(_ *gorm.DB, dayKey string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[dayKey], nil
}

// fakeTokenRepo

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens []entity.Token
}

func (r *fakeTokenRepo) Create(_ *gorm.DB, token *entity.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = uuid.New()
	r.tokens = append(r.tokens, *token)
	return nil
}

func (r *fakeTokenRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tok := range r.tokens {
		if tok.ID == id {
			t := tok
			return &t, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepo) FindAll(_ *gorm.DB) ([]entity.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Token, len(r.tokens))
	copy(out, r.tokens)
	return out, nil
}

func (r *fakeTokenRepo) FindByIssuedRange(_ *gorm.DB, from, to time.Time) ([]entity.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Token
	for _, tok := range r.tokens {
		if !tok.IssuedAt.Before(from) && tok.IssuedAt.Before(to) {
			out = append(out, tok)
		}
	}
	return out, nil
}

func (r *fakeTokenRepo) UpdateStatus(_ *gorm.DB, token *entity.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tokens {
		if r.tokens[i].ID == token.ID {
			r.tokens[i] = *token
			return nil
		}
	}
	return nil
}

func (r *fakeTokenRepo) CountByIssuedRange(db *gorm.DB, from, to time.Time) (int64, error) {
	tokens, _ := r.FindByIssuedRange(db, from, to)
	return int64(len(tokens)), nil
}

func (r *fakeTokenRepo) CountOpenByIssuedRange(db *gorm.DB, from, to time.Time) (int64, error) {
	tokens, _ := r.FindByIssuedRange(db, from, to)
	var n int64
	for _, tok := range tokens {
		if tok.IsOpen() {
			n++
		}
	}
	return n, nil
}

func (r *fakeTokenRepo) MaxNumberForDay(_ *gorm.DB, dayKey string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, tok := range r.tokens {
		if tok.DayKey == dayKey && tok.TokenNumber > max {
			max = tok.TokenNumber
		}
	}
	return max, nil
}

func (r *fakeTokenRepo) CurrentInProgressNumber(_ *gorm.DB, dayKey string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tok := range r.tokens {
		if tok.DayKey == dayKey && tok.Status == entity.TokenStatusInProgress {
			return tok.TokenNumber, nil
		}
	}
	return 0, nil
}

// fakeBillRepo

type fakeBillRepo struct {
	mu    sync.Mutex
	bills map[uuid.UUID]entity.Bill
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: make(map[uuid.UUID]entity.Bill)}
}

func (r *fakeBillRepo) Create(_ *gorm.DB, bill *entity.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bill.ID = uuid.New()
	bill.CreatedAt = time.Now()
	r.bills[bill.ID] = *bill
	return nil
}

func (r *fakeBillRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *fakeBillRepo) FindAll(_ *gorm.DB) ([]entity.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Bill, 0, len(r.bills))
	for _, b := range r.bills {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBillRepo) FindOpenByTokenID(_ *gorm.DB, tokenID uuid.UUID) (*entity.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bills {
		if b.TokenID == tokenID && b.Status != entity.BillStatusCancelled {
			bill := b
			return &bill, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) Update(_ *gorm.DB, bill *entity.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bills[bill.ID] = *bill
	return nil
}

func (r *fakeBillRepo) CountByStatus(_ *gorm.DB, status entity.BillStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bills {
		if b.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeBillRepo) SumTotalsByCreatedRange(_ *gorm.DB, from, to time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, b := range r.bills {
		if b.Status == entity.BillStatusPaid && !b.CreatedAt.Before(from) && b.CreatedAt.Before(to) {
			sum = sum.Add(b.Total)
		}
	}
	return sum, nil
}

// fakePrescriptionRepo

type fakePrescriptionRepo struct {
	mu            sync.Mutex
	prescriptions []entity.Prescription
}

func (r *fakePrescriptionRepo) Create(_ *gorm.DB, p *entity.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	r.prescriptions = append(r.prescriptions, *p)
	return nil
}

func (r *fakePrescriptionRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.prescriptions {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakePrescriptionRepo) FindAll(_ *gorm.DB) ([]entity.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Prescription, len(r.prescriptions))
	copy(out, r.prescriptions)
	return out, nil
}

func (r *fakePrescriptionRepo) FindByPatientID(_ *gorm.DB, patientID uuid.UUID) ([]entity.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Prescription
	for _, p := range r.prescriptions {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePrescriptionRepo) CountAll(_ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.prescriptions)), nil
}

// fakeAppointmentRepo

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]entity.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]entity.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ *gorm.DB, a *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	r.appointments[a.ID] = *a
	return nil
}

func (r *fakeAppointmentRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAppointmentRepo) Find(_ *gorm.DB, filter repository.AppointmentFilter) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.appointments {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Date != nil {
			dayStart := *filter.Date
			if a.ScheduledAt.Before(dayStart) || !a.ScheduledAt.Before(dayStart.AddDate(0, 0, 1)) {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ *gorm.DB, a *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments[a.ID] = *a
	return nil
}

// fakeUserRepo

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]entity.User)}
}

func (r *fakeUserRepo) add(user entity.User) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return user.ID
}

func (r *fakeUserRepo) Create(_ *gorm.DB, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return errDuplicateEmail
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

var errDuplicateEmail = errors.New(`duplicate key value violates unique constraint "idx_users_email"`)

// fakeRoleRepo knows only the seeded clinic roles

type fakeRoleRepo struct{}

func (r *fakeRoleRepo) FindByID(_ *gorm.DB, id int) (*entity.Role, error) {
	if name := entity.RoleNameByID(id); name != "" {
		return &entity.Role{ID: id, RoleName: name}, nil
	}
	return nil, nil
}

func (r *fakeRoleRepo) FindByName(_ *gorm.DB, name string) (*entity.Role, error) {
	switch name {
	case entity.RoleDoctor:
		return &entity.Role{ID: entity.RoleIDDoctor, RoleName: name}, nil
	case entity.RoleReceptionist:
		return &entity.Role{ID: entity.RoleIDReceptionist, RoleName: name}, nil
	}
	return nil, nil
}

// fakeAuditService records actions in-memory

type fakeAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (s *fakeAuditService) Record(_ *gorm.DB, _ *uuid.UUID, action, _ string, _ entity.JSON) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	return nil
}

func (s *fakeAuditService) has(action string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.actions {
		if a == action {
			return true
		}
	}
	return false
}

// fakeQueueBoard counts the display updates it receives

type fakeQueueBoard struct {
	mu      sync.Mutex
	issued  int
	started int
	left    int
}

func (b *fakeQueueBoard) TokenIssued(_ context.Context, _ string, _ int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issued++
	return nil
}

func (b *fakeQueueBoard) TokenStarted(_ context.Context, _ string, _ int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.started++
	return nil
}

func (b *fakeQueueBoard) TokenLeftQueue(_ context.Context, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.left++
	return nil
}

func (b *fakeQueueBoard) Board(_ context.Context, dayKey string) (*service.BoardSnapshot, error) {
	return &service.BoardSnapshot{DayKey: dayKey}, nil
}
