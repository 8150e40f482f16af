package services

import (
	"context"
	"testing"

	"salonsuite/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	users := NewUserService(db)
	auth := NewAuthService(db)

	user, err := users.Create(ctx, 0, UserInput{Name: "Mia", Email: " Mia@Salon.Example ", Password: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, "mia@salon.example", user.Email)
	assert.NotEqual(t, "long-enough", user.Password)

	_, err = users.Create(ctx, 0, UserInput{Name: "Other", Email: "mia@salon.example", Password: "long-enough"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	_, err = users.Create(ctx, 0, UserInput{Name: "Short", Email: "short@salon.example", Password: "short"})
	assert.ErrorIs(t, err, ErrUserInvalidInput)
	_, err = users.Create(ctx, 0, UserInput{Name: "NoPass", Email: "nopass@salon.example"})
	assert.ErrorIs(t, err, ErrUserInvalidInput)

	got, err := auth.Authenticate(ctx, "MIA@salon.example", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = auth.Authenticate(ctx, "mia@salon.example", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Authenticate(ctx, "nobody@salon.example", "long-enough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_CreateInactive(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	inactive := false

	user, err := NewUserService(db).Create(ctx, 0, UserInput{Name: "Off", Email: "off@salon.example", Password: "long-enough", Status: &inactive})
	require.NoError(t, err)

	_, err = NewAuthService(db).Authenticate(ctx, "off@salon.example", "long-enough")
	assert.ErrorIs(t, err, ErrUserInactive)

	loaded, err := NewAuthService(db).CurrentUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserInactive)
	require.NotNil(t, loaded)
	assert.False(t, loaded.Status)
}

func TestUserService_SelfProtection(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	users := NewUserService(db)

	admin, err := users.Create(ctx, 0, UserInput{Name: "Boss", Email: "boss@salon.example", Password: "long-enough", IsAdmin: true})
	require.NoError(t, err)
	staff, err := users.Create(ctx, admin.ID, UserInput{Name: "Staff", Email: "staff@salon.example", Password: "long-enough"})
	require.NoError(t, err)

	_, err = users.Update(ctx, admin.ID, admin.ID, UserInput{Name: "Boss", Email: "boss@salon.example", IsAdmin: false})
	assert.ErrorIs(t, err, ErrUserInvalidInput)
	assert.ErrorIs(t, users.Deactivate(ctx, admin.ID, admin.ID), ErrUserInvalidInput)

	promoted, err := users.Update(ctx, admin.ID, staff.ID, UserInput{Name: "Staff Lead", Email: "staff@salon.example", IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)
	assert.Equal(t, "Staff Lead", promoted.Name)

	require.NoError(t, users.Deactivate(ctx, admin.ID, staff.ID))
	reloaded, err := users.Get(ctx, staff.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Status)

	_, err = users.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
