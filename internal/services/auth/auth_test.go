package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/shop-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/shop-admin/internal/lib/metrics"
	"github.com/magabrotheeeer/shop-admin/internal/lib/password"
	"github.com/magabrotheeeer/shop-admin/internal/models"
	"github.com/magabrotheeeer/shop-admin/internal/services/auth"
	"github.com/magabrotheeeer/shop-admin/internal/storage"
)

// Мок для UserGetter
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(userID, email string, role models.Role) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func (m *JwtMakerMock) IsExpired(token string) bool {
	return m.Called(token).Bool(0)
}

type loginCounter struct {
	outcomes []string
}

func (c *loginCounter) ObserveLogin(outcome string) {
	c.outcomes = append(c.outcomes, outcome)
}

func storedUser(t *testing.T, plain string) *models.User {
	t.Helper()
	hash, err := password.GetHash(plain)
	require.NoError(t, err)
	return &models.User{
		UUID:         "6b1c0a7e-3f55-4c1c-9c5b-2a4d1f7e8a90",
		Email:        "user@example.com",
		PasswordHash: hash,
		FirstName:    "Ann",
		LastName:     "Lee",
	}
}

func TestAuthService_Login(t *testing.T) {
	user := storedUser(t, "secret123")

	tests := []struct {
		name        string
		email       string
		password    string
		setupMocks  func(r *UserRepoMock, j *JwtMakerMock)
		wantToken   string
		wantErr     error
		wantOutcome string
	}{
		{
			name:     "successful login normalizes email",
			email:    "  User@Example.COM ",
			password: "secret123",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "user@example.com").Return(user, nil).Once()
				j.On("GenerateToken", user.UUID, user.Email, models.RoleUser).Return("signed", nil).Once()
			},
			wantToken:   "signed",
			wantOutcome: metrics.LoginSuccess,
		},
		{
			name:     "unknown email",
			email:    "ghost@example.com",
			password: "secret123",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, storage.ErrUserNotFound).Once()
			},
			wantErr:     auth.ErrInvalidCredentials,
			wantOutcome: metrics.LoginInvalid,
		},
		{
			name:     "wrong password",
			email:    "user@example.com",
			password: "nope",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "user@example.com").Return(user, nil).Once()
			},
			wantErr:     auth.ErrInvalidCredentials,
			wantOutcome: metrics.LoginInvalid,
		},
		{
			name:     "store failure",
			email:    "user@example.com",
			password: "secret123",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "user@example.com").Return(nil, errors.New("db down")).Once()
			},
			wantOutcome: metrics.LoginError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			maker := new(JwtMakerMock)
			counter := &loginCounter{}
			tt.setupMocks(repo, maker)
			svc := auth.NewAuthService(repo, maker, counter)

			token, pub, err := svc.Login(context.Background(), tt.email, tt.password)

			switch {
			case tt.wantToken != "":
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, user.UUID, pub.ID)
				assert.Equal(t, models.RoleUser, pub.Role)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			default:
				require.Error(t, err)
				assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
			}
			assert.Equal(t, []string{tt.wantOutcome}, counter.outcomes)
			repo.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

func TestAuthService_VerifyIdentity(t *testing.T) {
	user := storedUser(t, "secret123")
	claims := &customjwt.CustomClaims{UserID: user.UUID, Email: user.Email, Role: models.RoleUser}

	t.Run("valid token", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		maker.On("ParseToken", "good").Return(claims, nil).Once()
		repo.On("GetUserByID", mock.Anything, user.UUID).Return(user, nil).Once()

		pub, err := auth.NewAuthService(repo, maker, nil).VerifyIdentity(context.Background(), "good")
		require.NoError(t, err)
		assert.Equal(t, user.Email, pub.Email)
	})

	t.Run("invalid token", func(t *testing.T) {
		maker := new(JwtMakerMock)
		maker.On("ParseToken", "bad").Return(nil, customjwt.ErrInvalidToken).Once()

		_, err := auth.NewAuthService(new(UserRepoMock), maker, nil).VerifyIdentity(context.Background(), "bad")
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("owner deleted", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		maker.On("ParseToken", "good").Return(claims, nil).Once()
		repo.On("GetUserByID", mock.Anything, user.UUID).Return(nil, storage.ErrUserNotFound).Once()

		_, err := auth.NewAuthService(repo, maker, nil).VerifyIdentity(context.Background(), "good")
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		maker.On("ParseToken", "good").Return(claims, nil).Once()
		repo.On("GetUserByID", mock.Anything, user.UUID).Return(nil, errors.New("db down")).Once()

		_, err := auth.NewAuthService(repo, maker, nil).VerifyIdentity(context.Background(), "good")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrUnauthenticated)
	})
}
