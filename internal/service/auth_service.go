package service

import (
	"context"
	"errors"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/apperr"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/config"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/middleware"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/rbac"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is deliberately indistinguishable between a missing
// account and a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, actor Actor, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, actor Actor, id uuid.UUID) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, actor Actor, includeInactive bool) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, actor Actor, id uuid.UUID) error
	ReactivateUser(ctx context.Context, actor Actor, id uuid.UUID) error
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil || !user.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired refresh token")
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.New("malformed token")
	}
	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Active {
		return nil, errors.New("account not found or deactivated")
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         userToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ── Staff management ──────────────────────────────────────────────────────────

func (s *authService) CreateUser(ctx context.Context, actor Actor, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageEmployees) {
		return nil, apperr.Forbidden("only admins may manage staff accounts")
	}
	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, apperr.Validation("unknown role")
	}
	if existing, err := s.repo.FindByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, apperr.Conflict("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) GetUser(ctx context.Context, actor Actor, id uuid.UUID) (*dto.UserResponse, error) {
	// Staff can always read their own record; everything else is admin-only.
	if actor.ID != id && !rbac.CanPerform(actor.Role, rbac.ActionManageEmployees) {
		return nil, apperr.Forbidden("only admins may view other staff accounts")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context, actor Actor, includeInactive bool) ([]dto.UserResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageEmployees) {
		return nil, apperr.Forbidden("only admins may list staff accounts")
	}
	var users []model.User
	var err error
	if includeInactive {
		users, err = s.repo.ListAll(ctx)
	} else {
		users, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) UpdateUser(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageEmployees) {
		return nil, apperr.Forbidden("only admins may manage staff accounts")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Role != "" {
		role := model.Role(req.Role)
		if !role.Valid() {
			return nil, apperr.Validation("unknown role")
		}
		user.Role = role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) DeactivateUser(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageEmployees) {
		return apperr.Forbidden("only admins may manage staff accounts")
	}
	if actor.ID == id {
		return apperr.Conflict("cannot deactivate your own account")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apperr.NotFound("user not found")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *authService) ReactivateUser(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageEmployees) {
		return apperr.Forbidden("only admins may manage staff accounts")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apperr.NotFound("user not found")
	}
	return s.repo.Reactivate(ctx, id)
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     string(u.Role),
		Active:   u.Active,
	}
}
