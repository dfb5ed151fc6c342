// Package seed добавляет к хранилищу пользователей встроенного администратора.
//
// Администратор задаётся конфигом, в базе не хранится и изменить его через API нельзя.
// Для остального кода он выглядит как обычная запись с id "admin" и ролью admin.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/shop-admin/internal/config"
	"github.com/magabrotheeeer/shop-admin/internal/lib/password"
	"github.com/magabrotheeeer/shop-admin/internal/models"
	"github.com/magabrotheeeer/shop-admin/internal/storage"
)

// ErrReadOnly — попытка изменить или удалить встроенного администратора.
var ErrReadOnly = errors.New("seed account is read-only")

// UserStore — хранилище пользователей, которое оборачивает Users.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Users — UserStore с встроенным администратором поверх next.
type Users struct {
	next  UserStore
	admin models.User
}

// New хеширует пароль администратора один раз и возвращает обёртку над next.
func New(next UserStore, cfg config.AdminSeed) (*Users, error) {
	const op = "seed.New"
	email := models.NormalizeEmail(cfg.AdminEmail)
	if email == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("%s: admin email and password must be set", op)
	}
	hash, err := password.GetHash(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Users{
		next: next,
		admin: models.User{
			UUID:         models.AdminID,
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
			FirstName:    cfg.AdminFirstName,
			LastName:     cfg.AdminLastName,
		},
	}, nil
}

func (u *Users) seedCopy() *models.User {
	admin := u.admin
	return &admin
}

func (u *Users) isSeedEmail(email string) bool {
	return models.NormalizeEmail(email) == u.admin.Email
}

// CreateUser не даёт занять email администратора.
func (u *Users) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if u.isSeedEmail(user.Email) {
		return nil, fmt.Errorf("seed.CreateUser: %w", storage.ErrEmailTaken)
	}
	return u.next.CreateUser(ctx, user)
}

// GetUserByEmail возвращает администратора для его email, иначе идёт в хранилище.
func (u *Users) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if u.isSeedEmail(email) {
		return u.seedCopy(), nil
	}
	return u.next.GetUserByEmail(ctx, email)
}

// GetUserByID возвращает администратора для id "admin".
func (u *Users) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if id == models.AdminID {
		return u.seedCopy(), nil
	}
	return u.next.GetUserByID(ctx, id)
}

// ListUsers отдаёт только пользователей из хранилища.
func (u *Users) ListUsers(ctx context.Context) ([]*models.User, error) {
	return u.next.ListUsers(ctx)
}

// UpdateUser запрещает менять администратора и переносить на другого пользователя его email.
func (u *Users) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	if id == models.AdminID {
		return nil, fmt.Errorf("seed.UpdateUser: %w", ErrReadOnly)
	}
	if upd.Email != nil && u.isSeedEmail(*upd.Email) {
		return nil, fmt.Errorf("seed.UpdateUser: %w", storage.ErrEmailTaken)
	}
	return u.next.UpdateUser(ctx, id, upd)
}

// DeleteUser запрещает удалять администратора.
func (u *Users) DeleteUser(ctx context.Context, id string) error {
	if id == models.AdminID {
		return fmt.Errorf("seed.DeleteUser: %w", ErrReadOnly)
	}
	return u.next.DeleteUser(ctx, id)
}
