package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Maria", "maria@school.org", "s3cret", 0)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", created.Password)

	user, err := svc.Authenticate(ctx, "maria@school.org", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.Id, user.Id)

	_, err = svc.Authenticate(ctx, "maria@school.org", "guess")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Authenticate(ctx, "nobody@school.org", "s3cret")
	assert.ErrorIs(t, err, ErrUnknownEmail)
}

func TestCreateDuplicateEmail(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Maria", "maria@school.org", "one", 0)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Other", "maria@school.org", "two", 1)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.Create(ctx, "Empty", "empty@school.org", "", 0)
	assert.Error(t, err)
}

func TestSetPassword(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Maria", "maria@school.org", "old", 0)
	require.NoError(t, err)
	require.NoError(t, svc.SetPassword(ctx, "maria@school.org", "new"))

	_, err = svc.Authenticate(ctx, "maria@school.org", "old")
	assert.ErrorIs(t, err, ErrWrongPassword)
	_, err = svc.Authenticate(ctx, "maria@school.org", "new")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.SetPassword(ctx, "nobody@school.org", "x"), ErrUnknownEmail)

	first, err := svc.GetFirstUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Maria", first.Username)
}
