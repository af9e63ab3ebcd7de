package stores

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailpos-backend/internal/users"
	"github.com/angelmondragon/retailpos-backend/pkg/db"
	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	"github.com/angelmondragon/retailpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailpos-backend/pkg/errors"
)

func setupStoresTestDB(t *testing.T) (*db.Client, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:stores_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  address TEXT,
  phone TEXT,
  email TEXT,
  owner_id TEXT NOT NULL UNIQUE,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'employee',
  store_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}

	client, err := db.NewWithConn(conn)
	require.NoError(t, err)
	return client, conn
}

func newStoresService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client, conn := setupStoresTestDB(t)
	return NewService(client, NewRepository(conn), users.NewRepository(conn)), conn
}

func seedUser(t *testing.T, conn *gorm.DB, role enums.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     "user-" + uuid.NewString()[:8],
		Email:        fmt.Sprintf("user+%s@example.com", uuid.NewString()[:8]),
		PasswordHash: "hash",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func TestRegisterStoreBindsOwner(t *testing.T) {
	svc, conn := newStoresService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, enums.UserRoleStoreOwner)

	store, err := svc.RegisterStore(ctx, owner.ID, RegisterStoreInput{Name: "Corner Cafe"})
	require.NoError(t, err)
	assert.Equal(t, "Corner Cafe", store.Name)
	assert.Equal(t, owner.ID, store.OwnerID)
	assert.True(t, store.IsActive)

	var reloaded models.User
	require.NoError(t, conn.Where("id = ?", owner.ID).First(&reloaded).Error)
	require.NotNil(t, reloaded.StoreID)
	assert.Equal(t, store.ID, *reloaded.StoreID)
}

func TestRegisterStoreSecondStoreConflicts(t *testing.T) {
	svc, conn := newStoresService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, enums.UserRoleStoreOwner)

	_, err := svc.RegisterStore(ctx, owner.ID, RegisterStoreInput{Name: "First"})
	require.NoError(t, err)

	_, err = svc.RegisterStore(ctx, owner.ID, RegisterStoreInput{Name: "Second"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRegisterStoreRequiresOwnerRole(t *testing.T) {
	svc, conn := newStoresService(t)
	ctx := context.Background()
	employee := seedUser(t, conn, enums.UserRoleEmployee)

	_, err := svc.RegisterStore(ctx, employee.ID, RegisterStoreInput{Name: "Nope"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestRegisterStoreUnknownUserIsNotFound(t *testing.T) {
	svc, _ := newStoresService(t)

	_, err := svc.RegisterStore(context.Background(), uuid.New(), RegisterStoreInput{Name: "Ghost"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateStoreProfile(t *testing.T) {
	svc, conn := newStoresService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, enums.UserRoleStoreOwner)

	store, err := svc.RegisterStore(ctx, owner.ID, RegisterStoreInput{Name: "Corner Cafe"})
	require.NoError(t, err)

	name := "Corner Cafe & Roastery"
	phone := "555-0100"
	updated, err := svc.UpdateStore(ctx, store.ID, UpdateStoreInput{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
}
