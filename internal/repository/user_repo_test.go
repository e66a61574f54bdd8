package repository

import (
	"context"
	"testing"

	"go-supermarket-pos/internal/model"
	"go-supermarket-pos/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRoles(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, NewPrivilegeRepo(db).SeedDefaults(ctx))
	require.NoError(t, NewRoleRepo(db).SeedDefaults(ctx))
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	seedRoles(t, db)
	seedRoles(t, db)

	assert.Equal(t, int64(len(model.DefaultPrivileges)), testutil.Count(t, db, &model.Privilege{}))
	assert.Equal(t, int64(len(model.DefaultRoles)), testutil.Count(t, db, &model.Role{}))

	roles := NewRoleRepo(db)
	admin, err := roles.FindByCode(context.Background(), model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admin.Privileges, len(model.DefaultPrivileges))

	worker, err := roles.FindByCode(context.Background(), model.RolePOSWorker)
	require.NoError(t, err)
	assert.Len(t, worker.Privileges, len(model.DefaultRolePrivileges[model.RolePOSWorker]))
}

func TestUserRepoLookupAndFilter(t *testing.T) {
	db := testutil.NewDB(t)
	seedRoles(t, db)
	ctx := context.Background()
	users := NewUserRepo(db)

	workerRole, err := NewRoleRepo(db).FindByCode(ctx, model.RolePOSWorker)
	require.NoError(t, err)

	u := &model.User{Username: "till1", Email: "Till1@Shop.test", FullName: "Till One", RoleID: &workerRole.ID, IsActive: true}
	require.NoError(t, u.SetPassword("secret"))
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, users.Create(ctx, &model.User{Username: "boss", Email: "boss@shop.test", Password: "x", IsActive: true}))

	byName, err := users.FindByUsernameOrEmail(ctx, "till1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, model.RolePOSWorker, byName.RoleCode())

	byEmail, err := users.FindByUsernameOrEmail(ctx, " till1@shop.test ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = users.FindByUsernameOrEmail(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	list, total, err := users.FindAll(ctx, UserFilter{RoleCode: model.RolePOSWorker})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "till1", list[0].Username)

	list, total, err = users.FindAll(ctx, UserFilter{Search: "BOSS"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "boss", list[0].Username)
}

func TestUserRepoPrivilegesAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	seedRoles(t, db)
	ctx := context.Background()
	users := NewUserRepo(db)
	privs := NewPrivilegeRepo(db)

	u := &model.User{Username: "till1", Email: "till1@shop.test", Password: "x", IsActive: true}
	require.NoError(t, users.Create(ctx, u))

	granted, err := privs.FindByCodes(ctx, []string{model.PrivProductView, model.PrivTransactionCreate})
	require.NoError(t, err)
	require.Len(t, granted, 2)
	require.NoError(t, users.UpdatePrivileges(ctx, u.ID, granted))

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.HasPrivilege(model.PrivTransactionCreate))
	assert.False(t, got.HasPrivilege(model.PrivUserDelete))

	require.NoError(t, users.Update(ctx, u.ID, map[string]interface{}{"is_active": false}))
	got, err = users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, users.UpdateTokenVersion(ctx, u.ID, "v2"))
	got, err = users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.TokenVersion)

	require.NoError(t, users.Delete(ctx, u.ID))
	assert.ErrorIs(t, users.Delete(ctx, u.ID), gorm.ErrRecordNotFound)
}
