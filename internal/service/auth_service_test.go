package service_test

import (
	"context"
	"testing"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/apperr"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/config"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository/memory"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (service.AuthService, repository.UserRepository, service.Actor) {
	t.Helper()
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1, JWTRefreshHours: 24}
	svc := service.NewAuthService(userRepo, cfg)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &model.User{Username: "admin", FullName: "Root Admin", PasswordHash: string(hash), Role: model.RoleAdmin, Active: true}
	require.NoError(t, userRepo.Create(context.Background(), admin))

	return svc, userRepo, service.Actor{ID: admin.ID, Role: model.RoleAdmin}
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "admin12345"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "admin", resp.User.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "nope"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginDeactivatedUser(t *testing.T) {
	svc, userRepo, admin := newAuthFixture(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, admin, dto.CreateUserRequest{
		Username: "anna", FullName: "Anna Petrova", Password: "secret-pass", Role: "waiter",
	})
	require.NoError(t, err)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	require.NoError(t, userRepo.SoftDelete(ctx, id))

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "anna", Password: "secret-pass"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRefreshRoundTrip(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "admin12345"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefreshGarbageToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, err := svc.Refresh(context.Background(), "not.a.jwt")
	assert.Error(t, err)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc, _, admin := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, admin, dto.CreateUserRequest{
		Username: "admin", FullName: "Imposter", Password: "12345678", Role: "waiter",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "got %v", err)
}

func TestUserManagementIsAdminOnly(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	waiter := service.Actor{ID: uuid.New(), Role: model.RoleWaiter}

	_, err := svc.CreateUser(ctx, waiter, dto.CreateUserRequest{
		Username: "x", FullName: "Some One", Password: "12345678", Role: "waiter",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = svc.ListUsers(ctx, waiter, false)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	err = svc.DeactivateUser(ctx, waiter, uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestDeactivateSelfRefused(t *testing.T) {
	svc, _, admin := newAuthFixture(t)
	err := svc.DeactivateUser(context.Background(), admin, admin.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestDeactivateAndReactivate(t *testing.T) {
	svc, _, admin := newAuthFixture(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, admin, dto.CreateUserRequest{
		Username: "boris", FullName: "Boris Chef", Password: "12345678", Role: "chef",
	})
	require.NoError(t, err)
	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(ctx, admin, id))

	active, err := svc.ListUsers(ctx, admin, false)
	require.NoError(t, err)
	all, err := svc.ListUsers(ctx, admin, true)
	require.NoError(t, err)
	assert.Len(t, all, len(active)+1)

	require.NoError(t, svc.ReactivateUser(ctx, admin, id))
	got, err := svc.GetUser(ctx, admin, id)
	require.NoError(t, err)
	assert.True(t, got.Active)
}
