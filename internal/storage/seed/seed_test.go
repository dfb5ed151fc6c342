package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/shop-admin/internal/config"
	"github.com/magabrotheeeer/shop-admin/internal/lib/password"
	"github.com/magabrotheeeer/shop-admin/internal/models"
	"github.com/magabrotheeeer/shop-admin/internal/storage"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockStore) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func adminSeed() config.AdminSeed {
	return config.AdminSeed{
		AdminEmail:     "Admin@Gmail.com",
		AdminPassword:  "admin123",
		AdminFirstName: "Admin",
		AdminLastName:  "User",
	}
}

func newUsers(t *testing.T) (*Users, *MockStore) {
	t.Helper()
	store := new(MockStore)
	u, err := New(store, adminSeed())
	require.NoError(t, err)
	return u, store
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(new(MockStore), config.AdminSeed{AdminEmail: "admin@gmail.com"})
	assert.Error(t, err)
}

func TestUsers_GetUserByEmail_Seed(t *testing.T) {
	u, store := newUsers(t)

	got, err := u.GetUserByEmail(context.Background(), " ADMIN@gmail.com ")
	require.NoError(t, err)
	assert.Equal(t, models.AdminID, got.UUID)
	assert.Equal(t, "admin@gmail.com", got.Email)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.True(t, password.Matches(got.PasswordHash, "admin123"))
	assert.NotEqual(t, "admin123", got.PasswordHash)

	// копия, а не ссылка на внутреннее состояние
	got.Role = models.RoleUser
	again, err := u.GetUserByID(context.Background(), models.AdminID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, again.Role)

	store.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
}

func TestUsers_DelegatesOtherUsers(t *testing.T) {
	u, store := newUsers(t)
	ctx := context.Background()
	user := &models.User{UUID: "u-1", Email: "jane@example.com"}

	store.On("GetUserByEmail", ctx, "jane@example.com").Return(user, nil).Once()
	store.On("GetUserByID", ctx, "u-1").Return(user, nil).Once()
	store.On("ListUsers", ctx).Return([]*models.User{user}, nil).Once()
	store.On("DeleteUser", ctx, "u-1").Return(nil).Once()

	got, err := u.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	got, err = u.GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	list, err := u.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.NoError(t, u.DeleteUser(ctx, "u-1"))
	store.AssertExpectations(t)
}

func TestUsers_SeedIsReadOnly(t *testing.T) {
	u, store := newUsers(t)
	ctx := context.Background()
	name := "Root"

	_, err := u.UpdateUser(ctx, models.AdminID, models.UserUpdate{FirstName: &name})
	assert.ErrorIs(t, err, ErrReadOnly)

	err = u.DeleteUser(ctx, models.AdminID)
	assert.ErrorIs(t, err, ErrReadOnly)

	store.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestUsers_SeedEmailIsTaken(t *testing.T) {
	u, store := newUsers(t)
	ctx := context.Background()
	seedEmail := "admin@gmail.com"

	_, err := u.CreateUser(ctx, models.User{Email: "ADMIN@gmail.com"})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	_, err = u.UpdateUser(ctx, "u-1", models.UserUpdate{Email: &seedEmail})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}
