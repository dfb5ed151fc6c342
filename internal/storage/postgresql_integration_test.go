package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/shop-admin/internal/migrations"
	"github.com/magabrotheeeer/shop-admin/internal/models"
)

func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("shop"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	root, err := filepath.Abs("../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(s.DB, filepath.Join(root, "migrations")))
	return s
}

func TestStorage_Integration_UserLifecycle(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, models.User{
		Email: "Jane@Example.com", PasswordHash: "h1", FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", created.Email)
	assert.Equal(t, models.RoleUser, created.Role)

	_, err = s.CreateUser(ctx, models.User{Email: "JANE@example.com", PasswordHash: "h2"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	byEmail, err := s.GetUserByEmail(ctx, " jane@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, created.UUID, byEmail.UUID)

	last := "Smith"
	updated, err := s.UpdateUser(ctx, created.UUID, models.UserUpdate{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "Smith", updated.LastName)
	assert.Equal(t, "h1", updated.PasswordHash)

	newHash := "h3"
	updated, err = s.UpdateUser(ctx, created.UUID, models.UserUpdate{PasswordHash: &newHash})
	require.NoError(t, err)
	assert.Equal(t, "h3", updated.PasswordHash)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, s.DeleteUser(ctx, created.UUID))
	_, err = s.GetUserByID(ctx, created.UUID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, created.UUID), ErrUserNotFound)
}

func TestStorage_Integration_ProductLifecycle(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	p, err := s.CreateProduct(ctx, models.ProductInput{
		Name: "Phone", Price: 10.5, Description: "d", Category: "c", Brand: "b", Stock: 3,
		Thumbnail: "https://cdn/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Rating)

	updated, err := s.UpdateProduct(ctx, p.ID, models.ProductInput{
		Name: "Phone 2", Price: 11, Description: "d", Category: "c", Brand: "b", Stock: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Phone 2", updated.Name)
	assert.Equal(t, "https://cdn/a.png", updated.Thumbnail)

	require.NoError(t, s.SetProductThumbnail(ctx, p.ID, "https://cdn/b.png"))
	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/b.png", got.Thumbnail)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	list, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
