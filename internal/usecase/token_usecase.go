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
	ErrTokenNotFound     = errors.New("token not found")
	ErrInvalidTransition = errors.New("invalid token status transition")
)

// Queue listing scopes
const (
	TokenScopeToday = "today"
	TokenScopeAll   = "all"
)

type TokenUsecase interface {
	Issue(ctx context.Context, req *dto.IssueTokenRequest) (*dto.TokenResponse, error)
	GetQueue(ctx context.Context, scope string) (*dto.TokenListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateTokenStatusRequest) (*dto.TokenResponse, error)
	Board(ctx context.Context) (*service.BoardSnapshot, error)
}

type tokenUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	tokenRepo    repository.TokenRepository
	counterRepo  repository.TokenCounterRepository
	patientRepo  repository.PatientRepository
	queueBoard   service.QueueBoard
	auditService service.AuditService
	now          func() time.Time
}

func NewTokenUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	tokenRepo repository.TokenRepository,
	counterRepo repository.TokenCounterRepository,
	patientRepo repository.PatientRepository,
	queueBoard service.QueueBoard,
	auditService service.AuditService,
) TokenUsecase {
	return &tokenUsecase{
		db:           db,
		log:          log,
		tokenRepo:    tokenRepo,
		counterRepo:  counterRepo,
		patientRepo:  patientRepo,
		queueBoard:   queueBoard,
		auditService: auditService,
		now:          time.Now,
	}
}

// Issue assigns the next sequential number for the local calendar day and
// creates the token. The counter bump and the token insert share one
// transaction, and the bump itself is a single atomic upsert, so concurrent
// issuance cannot hand out duplicate numbers. Numbers start at 1 each day
// and are never reused; a failed insert after the bump leaves a gap.
func (u *tokenUsecase) Issue(ctx context.Context, req *dto.IssueTokenRequest) (*dto.TokenResponse, error) {
	actorID, err := requireRole(ctx, entity.RoleIDReceptionist)
	if err != nil {
		return nil, err
	}

	priority := entity.TokenPriority(req.Priority)
	if priority == "" {
		priority = entity.TokenPriorityNormal
	}

	issuedAt := u.now()
	dayKey := issuedAt.Format(entity.DayKeyFormat)

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

	number, err := u.counterRepo.Increment(tx, dayKey)
	if err != nil {
		u.log.Warnf("Failed to increment counter for %s: %+v", dayKey, err)
		return nil, err
	}

	token := &entity.Token{
		DayKey:      dayKey,
		TokenNumber: number,
		PatientID:   req.PatientID,
		Status:      entity.TokenStatusWaiting,
		Priority:    priority,
		IssuedAt:    issuedAt,
		IssuedBy:    actorID,
	}

	if err := u.tokenRepo.Create(tx, token); err != nil {
		u.log.Warnf("Failed to create token %s/%d: %+v", dayKey, number, err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &actorID, entity.AuditActionTokenIssue,
		fmt.Sprintf("Issued token #%d for %s", number, patient.Name),
		entity.JSON{"token_id": token.ID.String(), "day_key": dayKey, "token_number": number}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// Board updates are best-effort; the display re-syncs from the DB on restart
	if err := u.queueBoard.TokenIssued(ctx, dayKey, number); err != nil {
		u.log.Warnf("Failed to update queue board (non-fatal): %+v", err)
	}

	u.log.Infof("Token issued: day=%s, number=%d, patient=%s, priority=%s",
		dayKey, number, req.PatientID, priority)

	token.Patient = *patient
	return converter.TokenToResponse(token), nil
}

// GetQueue returns today's queue in issuance order, or the full history
// newest first when scope is "all".
func (u *tokenUsecase) GetQueue(ctx context.Context, scope string) (*dto.TokenListResponse, error) {
	if _, err := requireRole(ctx, entity.RoleIDDoctor, entity.RoleIDReceptionist); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)

	var tokens []entity.Token
	var err error
	if scope == TokenScopeAll {
		tokens, err = u.tokenRepo.FindAll(db)
	} else {
		dayStart := u.dayStart()
		tokens, err = u.tokenRepo.FindByIssuedRange(db, dayStart, dayStart.AddDate(0, 0, 1))
	}
	if err != nil {
		u.log.Warnf("Failed to list tokens (scope=%s): %+v", scope, err)
		return nil, err
	}

	return &dto.TokenListResponse{
		Tokens: converter.TokensToResponses(tokens),
		Total:  len(tokens),
	}, nil
}

// UpdateStatus advances a token through its lifecycle. Consultation moves
// (in-progress, completed) are doctor-only; either role may cancel an open
// token.
func (u *tokenUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateTokenStatusRequest) (*dto.TokenResponse, error) {
	next := entity.TokenStatus(req.Status)

	var actorID uuid.UUID
	var err error
	switch next {
	case entity.TokenStatusInProgress, entity.TokenStatusCompleted:
		actorID, err = requireRole(ctx, entity.RoleIDDoctor)
	case entity.TokenStatusCancelled:
		actorID, err = requireRole(ctx, entity.RoleIDDoctor, entity.RoleIDReceptionist)
	default:
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	token, err := u.tokenRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find token %s: %+v", id, err)
		return nil, err
	}
	if token == nil {
		return nil, ErrTokenNotFound
	}

	previous := token.Status
	switch next {
	case entity.TokenStatusInProgress:
		if previous != entity.TokenStatusWaiting {
			return nil, ErrInvalidTransition
		}
		consultedAt := u.now()
		token.ConsultedBy = &actorID
		token.ConsultedAt = &consultedAt
	case entity.TokenStatusCompleted:
		if previous != entity.TokenStatusInProgress {
			return nil, ErrInvalidTransition
		}
	case entity.TokenStatusCancelled:
		if !token.IsOpen() {
			return nil, ErrInvalidTransition
		}
	}
	token.Status = next

	if err := u.tokenRepo.UpdateStatus(tx, token); err != nil {
		u.log.Warnf("Failed to update token %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &actorID, entity.AuditActionTokenStatusChange,
		fmt.Sprintf("Token #%d: %s -> %s", token.TokenNumber, previous, next),
		entity.JSON{"token_id": token.ID.String(), "from": string(previous), "to": string(next)}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	switch {
	case next == entity.TokenStatusInProgress:
		if err := u.queueBoard.TokenStarted(ctx, token.DayKey, token.TokenNumber); err != nil {
			u.log.Warnf("Failed to update queue board (non-fatal): %+v", err)
		}
	case next == entity.TokenStatusCancelled && previous == entity.TokenStatusWaiting:
		if err := u.queueBoard.TokenLeftQueue(ctx, token.DayKey); err != nil {
			u.log.Warnf("Failed to update queue board (non-fatal): %+v", err)
		}
	}

	return converter.TokenToResponse(token), nil
}

// Board returns the live waiting-room snapshot for the current day
func (u *tokenUsecase) Board(ctx context.Context) (*service.BoardSnapshot, error) {
	dayKey := u.now().Format(entity.DayKeyFormat)
	snapshot, err := u.queueBoard.Board(ctx, dayKey)
	if err != nil {
		u.log.Warnf("Failed to read queue board: %+v", err)
		return nil, err
	}
	return snapshot, nil
}

func (u *tokenUsecase) dayStart() time.Time {
	now := u.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
