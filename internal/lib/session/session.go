// Package session отвечает за перенос токена сессии между клиентом и сервером.
//
// Основной канал: HTTP-only cookie "token", запасной: заголовок
// Authorization: Bearer. Порядок источников задаётся списком Extractor.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/shop-admin/internal/config"
)

// CookieName — имя cookie с токеном сессии.
const CookieName = "token"

// Extractor достаёт токен из запроса. Второе значение false, если токена нет.
type Extractor func(r *http.Request) (string, bool)

// CookieExtractor читает токен из cookie с именем name.
func CookieExtractor(name string) Extractor {
	return func(r *http.Request) (string, bool) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", false
		}
		return c.Value, true
	}
}

// BearerExtractor читает токен из заголовка Authorization вида "Bearer <token>".
func BearerExtractor() Extractor {
	return func(r *http.Request) (string, bool) {
		header := r.Header.Get("Authorization")
		if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
			return "", false
		}
		token := strings.TrimSpace(header[7:])
		if token == "" {
			return "", false
		}
		return token, true
	}
}

// Transport выставляет, сбрасывает и читает токен сессии.
type Transport struct {
	cookieName string
	secure     bool
	maxAge     time.Duration
	extractors []Extractor
}

// Option настраивает Transport.
type Option func(*Transport)

// WithExtractors заменяет список источников токена. Порядок важен: побеждает первый найденный.
func WithExtractors(extractors ...Extractor) Option {
	return func(t *Transport) {
		t.extractors = extractors
	}
}

// New создаёт Transport по конфигу: Secure только в продакшене, время жизни cookie равно TTL токена.
func New(cfg *config.Config, opts ...Option) *Transport {
	t := &Transport{
		cookieName: CookieName,
		secure:     cfg.IsProduction(),
		maxAge:     cfg.TokenTTL,
	}
	t.extractors = []Extractor{CookieExtractor(t.cookieName), BearerExtractor()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetSessionCookie записывает токен в cookie ответа.
func (t *Transport) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(t.maxAge.Seconds()),
		Expires:  time.Now().Add(t.maxAge),
	})
}

// ClearSessionCookie просит клиента удалить cookie сессии.
func (t *Transport) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// ExtractToken возвращает токен из первого источника, где он есть.
func (t *Transport) ExtractToken(r *http.Request) (string, bool) {
	for _, extract := range t.extractors {
		if token, ok := extract(r); ok {
			return token, true
		}
	}
	return "", false
}
