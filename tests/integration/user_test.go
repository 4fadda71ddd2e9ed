package integration

import (
	"context"
	"testing"

	"github.com/nkoncar/collecto-api/internal/models"
	"github.com/nkoncar/collecto-api/internal/services"
	"github.com/nkoncar/collecto-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Integration_FindOrCreateFromOAuth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	info := testutil.OAuthUserInfo("collector@example.com", "Collector", "google-123")

	created, err := svc.FindOrCreateFromOAuth(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, "collector@example.com", created.Email)
	assert.Equal(t, models.RoleUser, created.Role)
	assert.True(t, created.IsActive)

	// A second login with the same email resolves to the same user
	again, err := svc.FindOrCreateFromOAuth(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func TestUserService_Integration_UpdateName(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)

	updated, err := svc.Update(ctx, user.ID, "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, user.Email, updated.Email)
}

func TestUserService_Integration_SetRoleAndActive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)

	promoted, err := svc.SetRole(ctx, user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	blocked, err := svc.SetActive(ctx, user.ID, false)
	require.NoError(t, err)
	assert.False(t, blocked.IsActive)

	got, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.False(t, got.IsActive)
}

func TestUserService_Integration_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)

	require.NoError(t, svc.Delete(ctx, user.ID))

	_, err := svc.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUserService_Integration_List(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	fixtures.CreateUser(t)
	fixtures.CreateUser(t)
	fixtures.CreateUser(t, testutil.AsAdmin())

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}
