package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/roperoapp/ropero-backend/pkg/db"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  location TEXT,
  bio TEXT,
  rating NUMERIC NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	require.NoError(t, conn.Exec("DELETE FROM users").Error)
	return conn
}

func TestUsersRepoCreateAndFind(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	location := "Ciudad de Mexico"
	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "ana@example.com",
		PasswordHash: "hashed",
		FullName:     "Ana Garcia",
		Location:     &location,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsActive)

	byEmail, err := repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	require.NotNil(t, byEmail.Location)
	assert.Equal(t, location, *byEmail.Location)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Garcia", byID.FullName)
}

func TestUsersRepoFindByEmailMissing(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.FindByEmail(context.Background(), "nadie@example.com")
	require.Error(t, err)
	assert.True(t, db.IsNotFound(err))
}

func TestUsersRepoDuplicateEmail(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	dto := CreateUserDTO{Email: "ana@example.com", PasswordHash: "hashed", FullName: "Ana Garcia"}
	_, err := repo.Create(ctx, dto)
	require.NoError(t, err)

	_, err = repo.Create(ctx, dto)
	require.Error(t, err)
}

func TestUsersRepoUpdateLastLogin(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email: "ana@example.com", PasswordHash: "hashed", FullName: "Ana Garcia",
	})
	require.NoError(t, err)

	at := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, created.ID, at))

	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, reloaded.LastLoginAt.Equal(at))
}

func TestUsersRepoUpdateRating(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email: "ana@example.com", PasswordHash: "hashed", FullName: "Ana Garcia",
	})
	require.NoError(t, err)

	rating := decimal.RequireFromString("4.50")
	require.NoError(t, repo.UpdateRating(ctx, created.ID, rating, 2))

	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Rating.Equal(rating))
	assert.Equal(t, 2, reloaded.RatingCount)
}
