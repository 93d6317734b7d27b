package usecase

import (
	"context"
	"time"

	"clinicdesk/internal/delivery/dto"
	"clinicdesk/internal/domain/entity"
	"clinicdesk/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type DashboardUsecase interface {
	Stats(ctx context.Context) (*dto.DashboardStatsResponse, error)
}

type dashboardUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	patientRepo      repository.PatientRepository
	tokenRepo        repository.TokenRepository
	prescriptionRepo repository.PrescriptionRepository
	billRepo         repository.BillRepository
	now              func() time.Time
}

func NewDashboardUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	tokenRepo repository.TokenRepository,
	prescriptionRepo repository.PrescriptionRepository,
	billRepo repository.BillRepository,
) DashboardUsecase {
	return &dashboardUsecase{
		db:               db,
		log:              log,
		patientRepo:      patientRepo,
		tokenRepo:        tokenRepo,
		prescriptionRepo: prescriptionRepo,
		billRepo:         billRepo,
		now:              time.Now,
	}
}

// Stats gathers the front-desk dashboard counters. The counts are
// independent, so they are fetched concurrently and joined; one failing
// query fails the whole snapshot.
func (u *dashboardUsecase) Stats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	if _, err := requireRole(ctx, entity.RoleIDDoctor, entity.RoleIDReceptionist); err != nil {
		return nil, err
	}

	now := u.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	stats := &dto.DashboardStatsResponse{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := u.patientRepo.CountAll(u.db.WithContext(gctx))
		stats.TotalPatients = count
		return err
	})
	g.Go(func() error {
		count, err := u.tokenRepo.CountByIssuedRange(u.db.WithContext(gctx), dayStart, dayEnd)
		stats.TodayTokens = count
		return err
	})
	g.Go(func() error {
		count, err := u.tokenRepo.CountOpenByIssuedRange(u.db.WithContext(gctx), dayStart, dayEnd)
		stats.ActiveTokens = count
		return err
	})
	g.Go(func() error {
		count, err := u.prescriptionRepo.CountAll(u.db.WithContext(gctx))
		stats.TotalPrescriptions = count
		return err
	})
	g.Go(func() error {
		count, err := u.billRepo.CountByStatus(u.db.WithContext(gctx), entity.BillStatusPending)
		stats.PendingBills = count
		return err
	})
	g.Go(func() error {
		sum, err := u.billRepo.SumTotalsByCreatedRange(u.db.WithContext(gctx), dayStart, dayEnd)
		stats.TodayRevenue = sum
		return err
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to gather dashboard stats: %+v", err)
		return nil, err
	}

	return stats, nil
}
