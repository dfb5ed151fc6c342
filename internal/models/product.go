package models

import "time"

// Product — товар в каталоге магазина.
type Product struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Price              float64   `json:"price"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	Brand              string    `json:"brand"`
	Stock              int       `json:"stock"`
	DiscountPercentage float64   `json:"discountPercentage"`
	Rating             float64   `json:"rating"`
	Thumbnail          string    `json:"thumbnail,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ProductInput — поля товара из формы создания или обновления.
type ProductInput struct {
	Name               string  `validate:"required"`
	Price              float64 `validate:"gte=0"`
	Description        string  `validate:"required"`
	Category           string  `validate:"required"`
	Brand              string  `validate:"required"`
	Stock              int     `validate:"gte=0"`
	DiscountPercentage float64 `validate:"gte=0,lte=100"`
	Rating             float64 `validate:"gte=0,lte=5"`
	Thumbnail          string
}

// CredentialsNotification — сообщение для воркера рассылки с новым паролем.
type CredentialsNotification struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}
