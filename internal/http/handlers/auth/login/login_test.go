package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/shop-admin/internal/config"
	"github.com/magabrotheeeer/shop-admin/internal/lib/session"
	"github.com/magabrotheeeer/shop-admin/internal/models"
	"github.com/magabrotheeeer/shop-admin/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (string, models.PublicUser, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(models.PublicUser), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	user := models.PublicUser{ID: "u-1", Email: "user@example.com", Role: models.RoleUser}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(m *AuthServiceMock)
		wantStatusCode int
		wantError      string
		wantCookie     bool
	}{
		{
			name:        "valid login",
			requestBody: Request{Email: "user@example.com", Password: "secret123"},
			setupMock: func(m *AuthServiceMock) {
				m.On("Login", mock.Anything, "user@example.com", "secret123").Return("tok", user, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCookie:     true,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "missing password",
			requestBody:    Request{Email: "user@example.com"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password is a required field",
		},
		{
			name:           "malformed email",
			requestBody:    Request{Email: "user@@example", Password: "x"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Email must be a valid email address",
		},
		{
			name:        "wrong credentials",
			requestBody: Request{Email: "user@example.com", Password: "bad"},
			setupMock: func(m *AuthServiceMock) {
				m.On("Login", mock.Anything, "user@example.com", "bad").
					Return("", models.PublicUser{}, auth.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid email or password",
		},
		{
			name:        "store failure",
			requestBody: Request{Email: "user@example.com", Password: "secret123"},
			setupMock: func(m *AuthServiceMock) {
				m.On("Login", mock.Anything, "user@example.com", "secret123").
					Return("", models.PublicUser{}, errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			handler := New(newNoopLogger(), svc, session.New(&config.Config{}))

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "tok", got["token"])
				u, ok := got["user"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "u-1", u["id"])
				assert.NotContains(t, u, "password")
			}

			cookies := rec.Result().Cookies()
			if tt.wantCookie {
				require.Len(t, cookies, 1)
				assert.Equal(t, session.CookieName, cookies[0].Name)
				assert.Equal(t, "tok", cookies[0].Value)
				assert.True(t, cookies[0].HttpOnly)
			} else {
				assert.Empty(t, cookies)
			}
			svc.AssertExpectations(t)
		})
	}
}
