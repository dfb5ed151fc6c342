// Package models содержит доменные модели пользователя и товара,
// а также проекции, которые безопасно отдавать наружу.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import (
	"strings"
	"time"
)

// Role — роль пользователя. Допустимы только RoleUser и RoleAdmin.
type Role string

const (
	// RoleUser — роль по умолчанию.
	RoleUser Role = "user"
	// RoleAdmin — роль администратора магазина.
	RoleAdmin Role = "admin"
)

// AdminID — фиксированный идентификатор встроенного администратора,
// который не хранится в базе данных.
const AdminID = "admin"

// Valid сообщает, входит ли роль в закрытый набор ролей.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// OrDefault возвращает RoleUser для пустой роли.
func (r Role) OrDefault() Role {
	if r == "" {
		return RoleUser
	}
	return r
}

// User представляет учётную запись в хранилище.
type User struct {
	UUID         string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная, в нижнем регистре)
	PasswordHash string    `json:"-"` // Хэш пароля пользователя
	Role         Role      // Роль пользователя, admin или user
	FirstName    string    // Имя
	LastName     string    // Фамилия
	Age          *int      // Возраст, если указан
	Gender       string    // Пол
	Phone        string    // Телефон
	Username     string    // Отображаемое имя
	CreatedAt    time.Time // Дата создания
	UpdatedAt    time.Time // Дата последнего изменения
}

// PublicUser — проекция пользователя без хэша пароля.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
	Age       *int   `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Sanitize возвращает проекцию пользователя, пригодную для ответа клиенту.
func (u User) Sanitize() PublicUser {
	return PublicUser{
		ID:        u.UUID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.OrDefault(),
		Age:       u.Age,
		Gender:    u.Gender,
		Phone:     u.Phone,
		Username:  u.Username,
	}
}

// NormalizeEmail приводит адрес к виду, в котором он хранится.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser — данные для создания пользователя администратором.
// Если Password пустой, пароль будет сгенерирован и отправлен на почту.
type NewUser struct {
	Email     string `json:"email" validate:"required,emailshape"`
	Password  string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role      Role   `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Age       *int   `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Gender    string `json:"gender,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Username  string `json:"username,omitempty"`
}

// UserPatch — частичное обновление пользователя. Nil-поля не меняются.
// Пустой Password оставляет текущий хэш нетронутым.
type UserPatch struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,emailshape"`
	Password  string  `json:"password,omitempty" validate:"omitempty,min=6"`
	Role      *Role   `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Age       *int    `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Gender    *string `json:"gender,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Username  *string `json:"username,omitempty"`
}

// UserUpdate — то, что уходит в хранилище: патч с уже посчитанным хэшем.
type UserUpdate struct {
	Email        *string
	PasswordHash *string
	Role         *Role
	FirstName    *string
	LastName     *string
	Age          *int
	Gender       *string
	Phone        *string
	Username     *string
}
