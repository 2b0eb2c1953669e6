package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/pricedesk/internal/domain/models"
	security "github.com/linemk/pricedesk/internal/jwt-new"
	"github.com/linemk/pricedesk/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// ограничения на новый пароль; больше 72 байт bcrypt не принимает
const (
	MinSecretLen = 8
	MaxSecretLen = 72
)

// LoginResult - токен и данные пользователя после успешного входа
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthServiceInterface interface {
	Login(ctx context.Context, identifier, secret string) (*LoginResult, error)
	ChangePassword(ctx context.Context, userID int64, currentSecret, newSecret string) error
}

type AuthService struct {
	log       *slog.Logger
	userRepo  storage.UserStorage
	jwtSecret string
	tokenTTL  time.Duration
	// хэш-заглушка: для неизвестного пользователя тоже выполняем сравнение bcrypt,
	// чтобы время ответа не выдавало, существует ли логин
	dummyHash []byte
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, jwtSecret string, tokenTTL time.Duration) *AuthService {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("pricedesk-dummy-secret"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("failed to prepare dummy hash: %v", err))
	}
	return &AuthService{
		log:       log,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		dummyHash: dummyHash,
	}
}

// Login проверяет логин (username или email) и пароль и выдает JWT.
// Неизвестный логин и неверный пароль неотличимы: оба дают ErrInvalidCredentials.
func (a *AuthService) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("identifier", identifier),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(secret))
			logger.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(secret)); err != nil {
		logger.Warn("invalid password")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := security.NewToken(user, a.jwtSecret, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return &LoginResult{Token: token, User: user}, nil
}

// ChangePassword меняет пароль после повторной проверки текущего
func (a *AuthService) ChangePassword(ctx context.Context, userID int64, currentSecret, newSecret string) error {
	const op = "service.AuthService.ChangePassword"
	logger := a.log.With(slog.String("op", op), slog.Int64("userID", userID))

	if len(newSecret) < MinSecretLen || len(newSecret) > MaxSecretLen {
		return fmt.Errorf("%s: %w: new password must be %d to %d characters", op, ErrValidation, MinSecretLen, MaxSecretLen)
	}

	user, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// токен выписан на удаленного пользователя
			logger.Warn("user from token not found")
			return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(currentSecret)); err != nil {
		logger.Warn("invalid current password")
		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newSecret), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	if err := a.userRepo.UpdatePassword(ctx, userID, passHash); err != nil {
		logger.Error("failed to update password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update password: %w", op, err)
	}

	logger.Info("password changed")
	return nil
}
