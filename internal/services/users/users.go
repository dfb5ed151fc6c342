// Package users реализует управление учётными записями: регистрацию,
// создание администратором, чтение, изменение и удаление.
package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/shop-admin/internal/lib/password"
	"github.com/magabrotheeeer/shop-admin/internal/lib/sl"
	"github.com/magabrotheeeer/shop-admin/internal/models"
)

// GeneratedPasswordLength — длина пароля, который выдаётся по почте.
const GeneratedPasswordLength = 12

// UserStore — хранилище пользователей (с учётом встроенного администратора).
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Notifier ставит в очередь письмо с паролем.
type Notifier interface {
	NotifyCredentials(ctx context.Context, msg models.CredentialsNotification) error
}

// Service выполняет операции над пользователями.
type Service struct {
	store    UserStore
	notifier Notifier
	log      *slog.Logger
}

// NewService создаёт сервис пользователей.
func NewService(store UserStore, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

// Register создаёт пользователя с ролью user и сгенерированным паролем,
// который отправляется на указанную почту.
func (s *Service) Register(ctx context.Context, name, email string) (models.PublicUser, error) {
	const op = "users.Register"
	pub, err := s.createWithGeneratedPassword(ctx, models.User{
		Email:     models.NormalizeEmail(email),
		Role:      models.RoleUser,
		FirstName: name,
	})
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
	}
	return pub, nil
}

// Create создаёт пользователя от имени администратора. Пустой пароль генерируется
// и отправляется письмом.
func (s *Service) Create(ctx context.Context, in models.NewUser) (models.PublicUser, error) {
	const op = "users.Create"
	user := models.User{
		Email:     models.NormalizeEmail(in.Email),
		Role:      in.Role.OrDefault(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Age:       in.Age,
		Gender:    in.Gender,
		Phone:     in.Phone,
		Username:  in.Username,
	}
	if in.Password == "" {
		pub, err := s.createWithGeneratedPassword(ctx, user)
		if err != nil {
			return models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
		}
		return pub, nil
	}

	hash, err := password.GetHash(in.Password)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
	}
	user.PasswordHash = hash
	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user created", slog.String("id", created.UUID))
	return created.Sanitize(), nil
}

// createWithGeneratedPassword сохраняет пользователя с новым паролем и публикует письмо.
// Если письмо поставить в очередь не удалось, запись удаляется: иначе пароль никто не узнает.
func (s *Service) createWithGeneratedPassword(ctx context.Context, user models.User) (models.PublicUser, error) {
	plain, err := password.Generate(GeneratedPasswordLength)
	if err != nil {
		return models.PublicUser{}, err
	}
	hash, err := password.GetHash(plain)
	if err != nil {
		return models.PublicUser{}, err
	}
	user.PasswordHash = hash

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return models.PublicUser{}, err
	}

	msg := models.CredentialsNotification{
		Email:    created.Email,
		Name:     displayName(created),
		Password: plain,
	}
	if err := s.notifier.NotifyCredentials(ctx, msg); err != nil {
		if delErr := s.store.DeleteUser(ctx, created.UUID); delErr != nil {
			s.log.Error("failed to roll back user after notification error",
				slog.String("id", created.UUID), sl.Err(delErr))
		}
		return models.PublicUser{}, err
	}
	s.log.Info("user created, credentials queued", slog.String("id", created.UUID))
	return created.Sanitize(), nil
}

func displayName(u *models.User) string {
	switch {
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// List возвращает всех пользователей из хранилища.
func (s *Service) List(ctx context.Context) ([]models.PublicUser, error) {
	const op = "users.List"
	list, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res := make([]models.PublicUser, 0, len(list))
	for _, u := range list {
		res = append(res, u.Sanitize())
	}
	return res, nil
}

// Get возвращает пользователя по id.
func (s *Service) Get(ctx context.Context, id string) (models.PublicUser, error) {
	const op = "users.Get"
	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
	}
	return u.Sanitize(), nil
}

// Update применяет частичное изменение. Пароль перехешируется только если он передан.
func (s *Service) Update(ctx context.Context, id string, patch models.UserPatch) (models.PublicUser, error) {
	const op = "users.Update"
	upd := models.UserUpdate{
		Role:      patch.Role,
		FirstName: patch.FirstName,
		LastName:  patch.LastName,
		Age:       patch.Age,
		Gender:    patch.Gender,
		Phone:     patch.Phone,
		Username:  patch.Username,
	}
	if patch.Email != nil {
		email := models.NormalizeEmail(*patch.Email)
		upd.Email = &email
	}
	if patch.Password != "" {
		hash, err := password.GetHash(patch.Password)
		if err != nil {
			return models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
		}
		upd.PasswordHash = &hash
	}

	u, err := s.store.UpdateUser(ctx, id, upd)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user updated", slog.String("id", id))
	return u.Sanitize(), nil
}

// Delete удаляет пользователя без возможности восстановления.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "users.Delete"
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user deleted", slog.String("id", id))
	return nil
}
