package service

import (
	"context"
	"testing"

	"github.com/haierkeys/fast-file-share-service/internal/dao"
	"github.com/haierkeys/fast-file-share-service/internal/dto"
	"github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService(t *testing.T, enabled bool) (UserService, app.TokenManager) {
	t.Helper()
	env := newTestEnv(t, nil)
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "test-secret"})
	cfg := &ServiceConfig{User: UserServiceConfig{RegisterIsEnable: enabled}}
	return NewUserService(dao.NewUserRepository(env.dao), tm, zap.NewNop(), cfg), tm
}

func registerParams(email string) *dto.UserCreateRequest {
	return &dto.UserCreateRequest{
		Email:           email,
		FirstName:       "Ada",
		DateOfBirth:     "1990-05-17",
		Password:        "correct horse",
		ConfirmPassword: "correct horse",
	}
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc, tm := newUserService(t, true)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerParams("Ada@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotZero(t, user.ID)

	_, err = svc.Register(ctx, registerParams("ada@example.com"))
	assert.ErrorIs(t, err, code.ErrorUserEmailAlreadyExists)

	_, err = svc.Login(ctx, &dto.UserLoginRequest{Email: "ada@example.com", Password: "wrong password"}, "127.0.0.1")
	assert.ErrorIs(t, err, code.ErrorUserLoginPasswordFailed)

	_, err = svc.Login(ctx, &dto.UserLoginRequest{Email: "nobody@example.com", Password: "correct horse"}, "127.0.0.1")
	assert.ErrorIs(t, err, code.ErrorUserLoginPasswordFailed)

	login, err := svc.Login(ctx, &dto.UserLoginRequest{Email: "ADA@example.com", Password: "correct horse"}, "127.0.0.1")
	require.NoError(t, err)
	claims, err := tm.Parse(login.Tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UID)

	refreshed, err := svc.Refresh(ctx, login.Tokens.Refresh, "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Access)

	// access 令牌不能用于刷新
	_, err = svc.Refresh(ctx, login.Tokens.Access, "127.0.0.1")
	assert.ErrorIs(t, err, code.ErrorInvalidRefreshToken)
}

func TestUserService_RegisterValidation(t *testing.T) {
	svc, _ := newUserService(t, true)
	ctx := context.Background()

	p := registerParams("a@example.com")
	p.ConfirmPassword = "something else"
	_, err := svc.Register(ctx, p)
	assert.ErrorIs(t, err, code.ErrorUserPasswordNotMatch)

	p = registerParams("a@example.com")
	p.DateOfBirth = "2999-01-01"
	_, err = svc.Register(ctx, p)
	assert.ErrorIs(t, err, code.ErrorDateOfBirthNotValid)

	p = registerParams("a@example.com")
	p.DateOfBirth = "1990-13-40"
	_, err = svc.Register(ctx, p)
	assert.ErrorIs(t, err, code.ErrorDateOfBirthNotValid)
}

func TestUserService_RegisterDisabled(t *testing.T) {
	svc, _ := newUserService(t, false)
	_, err := svc.Register(context.Background(), registerParams("a@example.com"))
	assert.ErrorIs(t, err, code.ErrorUserRegisterIsDisable)
}
