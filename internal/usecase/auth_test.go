package usecase_test

import (
	"context"
	"testing"
	"time"

	"resume-builder/internal/apperrors"
	"resume-builder/internal/testutil"
	"resume-builder/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginAuthenticate(t *testing.T) {
	svc := usecase.NewAuthService(testutil.NewStore().Users(), "test-secret", time.Hour)
	ctx := context.Background()

	reg, err := svc.Register(ctx, usecase.RegisterInput{Email: " Asha@Example.com ", Name: "Asha", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", reg.User.Email)
	assert.NotEqual(t, "correct horse", reg.User.PasswordHash)

	_, err = svc.Register(ctx, usecase.RegisterInput{Email: "asha@example.com", Name: "Again", Password: "another pass"})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)

	_, err = svc.Login(ctx, usecase.LoginInput{Email: "asha@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, usecase.LoginInput{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	login, err := svc.Login(ctx, usecase.LoginInput{Email: "ASHA@example.com", Password: "correct horse"})
	require.NoError(t, err)

	id, err := svc.Authenticate(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, id)

	me, err := svc.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Asha", me.Name)
}

func TestAuthenticateRejectsForeignTokens(t *testing.T) {
	users := testutil.NewStore().Users()
	svc := usecase.NewAuthService(users, "test-secret", time.Hour)
	other := usecase.NewAuthService(users, "other-secret", time.Hour)

	res, err := other.Register(context.Background(), usecase.RegisterInput{Email: "a@b.io", Name: "A", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Authenticate(res.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Authenticate("not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthenticateRejectsExpiredTokens(t *testing.T) {
	svc := usecase.NewAuthService(testutil.NewStore().Users(), "test-secret", -time.Hour)

	res, err := svc.Register(context.Background(), usecase.RegisterInput{Email: "a@b.io", Name: "A", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Authenticate(res.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
