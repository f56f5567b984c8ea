package auth

import (
	"context"
	"errors"
	"time"

	"handy/internal/models"
	"handy/internal/repositories"
	"handy/internal/utils"
	"handy/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain special characters")
)

// RegisterRequest carries a new account's details.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, string, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, userID uint) error
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
}

// WalletProvisioner makes sure a freshly registered user has a wallet.
type WalletProvisioner interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error)
}

type service struct {
	userRepo repositories.UserRepository
	wallets  WalletProvisioner
	log      *zap.Logger
}

func NewService(userRepo repositories.UserRepository, wallets WalletProvisioner, log *zap.Logger) Service {
	if userRepo == nil {
		panic("auth: user repository is required")
	}
	if wallets == nil {
		panic("auth: wallet service is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{userRepo: userRepo, wallets: wallets, log: log}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*models.User, string, string, error) {
	if req.Email == "" {
		return nil, "", "", errors.New("email is required")
	}
	if len(req.Password) < 8 || !validation.HasSpecialChar(req.Password) {
		return nil, "", "", ErrWeakPassword
	}

	role := req.Role
	switch role {
	case models.RoleUser, models.RoleProvider:
	case "":
		role = models.RoleUser
	default:
		return nil, "", "", errors.New("invalid role")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", errors.New("failed to hash password")
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
		Status:   "active",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, "", "", err
		}
		return nil, "", "", errors.New("failed to create user")
	}

	// Every account gets its wallet up front; a failure here is not fatal,
	// the wallet store creates lazily on first use anyway.
	if _, err := s.wallets.GetOrCreate(ctx, user.ID); err != nil {
		s.log.Warn("wallet provisioning failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	accessToken, refreshToken, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return user, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Warn("login failed", zap.Uint("user_id", user.ID))
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}

	user.LastLoginAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.log.Warn("failed to record login time", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", errors.New("user not found")
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
}

func (s *service) Logout(ctx context.Context, userID uint) error {
	return s.userRepo.IncrementTokenVersion(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return errors.New("failed to get user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errors.New("invalid old password")
	}

	if len(newPassword) < 8 || !validation.HasSpecialChar(newPassword) {
		return ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	user.Password = string(hashed)
	user.TokenVersion++ // Invalidate existing tokens

	if err := s.userRepo.Update(ctx, user); err != nil {
		return errors.New("failed to update password")
	}

	return nil
}

func (s *service) issueTokens(user *models.User) (string, string, error) {
	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		s.log.Error("token generation failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return "", "", errors.New("error generating tokens")
	}
	return accessToken, refreshToken, nil
}
