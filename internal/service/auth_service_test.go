package service

import (
	"context"
	"testing"

	"go-supermarket-pos/internal/model"
	"go-supermarket-pos/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginByUsernameOrEmail(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	u := f.createWorker(t, "till1")

	resp, err := f.auth.Login(ctx, "till1", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, u.ID, resp.User.ID)
	require.NotNil(t, resp.Role)
	assert.Equal(t, model.RolePOSWorker, resp.Role.Code)
	assert.Contains(t, resp.Privileges, model.PrivTransactionCreate)

	resp, err = f.auth.Login(ctx, "TILL1@shop.test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)

	_, err = f.auth.Login(ctx, "till1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "ghost", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	u := f.createWorker(t, "till1")

	_, err := f.users.SetUserState(ctx, u.ID, false, "admin")
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, "till1", "secret1")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestValidateTokenSingleSession(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.createWorker(t, "till1")

	first, err := f.auth.Login(ctx, "till1", "secret1")
	require.NoError(t, err)

	v, err := f.auth.ValidateToken(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, "till1", v.User.Username)

	_, err = f.auth.Login(ctx, "till1", "secret1")
	require.NoError(t, err)

	_, err = f.auth.ValidateToken(ctx, first.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)

	_, err = f.auth.ValidateToken(ctx, "")
	assert.ErrorIs(t, err, jwt.ErrMissingToken)
	_, err = f.auth.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestResetPasswordEndsSession(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.createWorker(t, "till1")

	login, err := f.auth.Login(ctx, "till1", "secret1")
	require.NoError(t, err)

	assert.ErrorIs(t, f.auth.ResetPassword(ctx, "till1", "nope", "next-one"), ErrWrongPassword)
	assert.ErrorIs(t, f.auth.ResetPassword(ctx, "ghost", "secret1", "next-one"), ErrUserNotFound)
	require.NoError(t, f.auth.ResetPassword(ctx, "till1", "secret1", "next-one"))

	_, err = f.auth.ValidateToken(ctx, login.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)
	_, err = f.auth.Login(ctx, "till1", "next-one")
	assert.NoError(t, err)
}
