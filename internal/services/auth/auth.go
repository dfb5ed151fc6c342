// Package auth содержит логику входа по email и паролю и проверки сессионного токена.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/magabrotheeeer/shop-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/shop-admin/internal/lib/metrics"
	"github.com/magabrotheeeer/shop-admin/internal/lib/password"
	"github.com/magabrotheeeer/shop-admin/internal/models"
	"github.com/magabrotheeeer/shop-admin/internal/storage"
)

var (
	// ErrInvalidCredentials — неизвестный email или неверный пароль. Случаи не различаются.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated — токен не прошёл проверку или его владелец удалён.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// UserGetter описывает поиск учётных записей.
type UserGetter interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// LoginObserver учитывает исходы попыток входа.
type LoginObserver interface {
	ObserveLogin(outcome string)
}

// AuthService выдаёт токены и восстанавливает по ним пользователя.
type AuthService struct {
	users    UserGetter
	jwtMaker jwt.Maker
	logins   LoginObserver
}

// NewAuthService создает новый экземпляр AuthService. logins может быть nil.
func NewAuthService(users UserGetter, jwtMaker jwt.Maker, logins LoginObserver) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		logins:   logins,
	}
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// compareDummy тратит на отсутствующего пользователя столько же, сколько на неверный пароль.
func compareDummy(plain string) {
	dummyOnce.Do(func() {
		dummyHash, _ = password.GetHash("shop-admin-dummy-password")
	})
	_ = password.Matches(dummyHash, plain)
}

func (s *AuthService) observe(outcome string) {
	if s.logins != nil {
		s.logins.ObserveLogin(outcome)
	}
}

// Login проверяет пароль и возвращает подписанный токен вместе с проекцией пользователя.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, models.PublicUser, error) {
	const op = "auth.Login"
	user, err := s.users.GetUserByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, storage.ErrUserNotFound) {
		compareDummy(rawPassword)
		s.observe(metrics.LoginInvalid)
		return "", models.PublicUser{}, ErrInvalidCredentials
	}
	if err != nil {
		s.observe(metrics.LoginError)
		return "", models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
	}
	if !password.Matches(user.PasswordHash, rawPassword) {
		s.observe(metrics.LoginInvalid)
		return "", models.PublicUser{}, ErrInvalidCredentials
	}

	role := user.Role.OrDefault()
	token, err := s.jwtMaker.GenerateToken(user.UUID, user.Email, role)
	if err != nil {
		s.observe(metrics.LoginError)
		return "", models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
	}
	s.observe(metrics.LoginSuccess)
	return token, user.Sanitize(), nil
}

// VerifyIdentity разбирает токен и возвращает актуальную запись его владельца.
func (s *AuthService) VerifyIdentity(ctx context.Context, token string) (models.PublicUser, error) {
	const op = "auth.VerifyIdentity"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, storage.ErrUserNotFound) {
		return models.PublicUser{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
	}
	return user.Sanitize(), nil
}
