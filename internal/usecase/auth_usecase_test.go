package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"clinicdesk/config"
	"clinicdesk/internal/delivery/dto"
	"clinicdesk/internal/delivery/http/middleware"
	"clinicdesk/internal/domain/entity"
	"clinicdesk/pkg/jwt"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
)

func authFixture(t *testing.T, txCount int) (*authUsecase, redismock.ClientMock, *fakeUserRepo, *fakeAuditService) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	users := newFakeUserRepo()
	audit := &fakeAuditService{}

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})

	u := NewAuthUsecase(newTestDB(t, txCount), testLogger(), users, &fakeRoleRepo{}, audit, jwtService, rdb).(*authUsecase)
	return u, mock, users, audit
}

func TestLogoutRevokesAccessAndRefreshTokens(t *testing.T) {
	u, mock, _, audit := authFixture(t, 0)

	userID := uuid.New()
	accessKey := fmt.Sprintf("access_token:%s:%s", userID, uuid.New())
	refreshKey := fmt.Sprintf("refresh_token:%s:%s", userID, uuid.New())

	mock.ExpectKeys(fmt.Sprintf("access_token:%s:*", userID)).SetVal([]string{accessKey})
	mock.ExpectDel(accessKey).SetVal(1)
	mock.ExpectKeys(fmt.Sprintf("refresh_token:%s:*", userID)).SetVal([]string{refreshKey})
	mock.ExpectDel(refreshKey).SetVal(1)

	ctx := middleware.WithActor(context.Background(), userID, entity.RoleIDReceptionist)
	if err := u.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	// Both key families were deleted, the refresh token cannot survive logout
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("redis expectations: %v", err)
	}
	if !audit.has(entity.AuditActionUserLogout) {
		t.Error("logout was not audited")
	}
}

func TestLogoutWithNoLiveKeys(t *testing.T) {
	u, mock, _, _ := authFixture(t, 0)

	userID := uuid.New()
	mock.ExpectKeys(fmt.Sprintf("access_token:%s:*", userID)).SetVal(nil)
	mock.ExpectKeys(fmt.Sprintf("refresh_token:%s:*", userID)).SetVal(nil)

	ctx := middleware.WithActor(context.Background(), userID, entity.RoleIDDoctor)
	if err := u.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("redis expectations: %v", err)
	}
}

func TestLogoutRequiresActor(t *testing.T) {
	u, _, _, _ := authFixture(t, 0)

	if err := u.Logout(context.Background()); err != ErrNotAuthenticated {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestRefreshTokenRejectsRevoked(t *testing.T) {
	u, mock, users, _ := authFixture(t, 0)

	userID := users.add(entity.User{
		Email:    "desk@clinic.test",
		FullName: "Front Desk",
		RoleID:   entity.RoleIDReceptionist,
		IsActive: true,
	})

	refreshToken, tokenID, err := u.jwtService.GenerateRefreshToken(userID, "desk@clinic.test", entity.RoleIDReceptionist)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	// The stored key is gone, as after a logout
	mock.ExpectExists(fmt.Sprintf("refresh_token:%s:%s", userID, tokenID)).SetVal(0)

	_, err = u.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != ErrTokenRevoked {
		t.Fatalf("err = %v, want ErrTokenRevoked", err)
	}
}
