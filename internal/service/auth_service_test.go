package service

import (
	"context"
	"testing"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHarness(t *testing.T) (IAuthService, *fakeUow) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	uow := newFakeUow()
	return NewAuthService(&fakeFactory{uow: uow}), uow
}

func TestRegisterGrantsSignupCredits(t *testing.T) {
	svc, uow := newAuthHarness(t)

	res, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "new@example.com",
		Password: "hunter22",
		FullName: "New User",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, entity.SignupCreditGrant, res.User.Credits)
	assert.Equal(t, string(entity.PlanTierMetered), res.User.PlanTier)

	signups := uow.txns.ofType(entity.CreditTransactionSignup)
	require.Len(t, signups, 1)
	assert.Equal(t, entity.SignupCreditGrant, signups[0].Amount)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthHarness(t)

	req := &dto.RegisterRequest{Email: "dup@example.com", Password: "hunter22"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := newAuthHarness(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "login@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "login@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "login@example.com", res.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthHarness(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "login@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "login@example.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthHarness(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
