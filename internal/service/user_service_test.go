package service_test

import (
	"context"
	"testing"

	"fsanano/storefront/internal/service"
	"fsanano/storefront/internal/service/servicetest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) (*service.UserService, *servicetest.Store) {
	t.Helper()
	store := servicetest.NewStore()
	return service.NewUserService(store, service.BcryptHasher{Cost: bcrypt.MinCost}, zerolog.Nop()), store
}

func register(t *testing.T, svc *service.UserService, email string) int {
	t.Helper()
	u, err := svc.Register(context.Background(), service.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "secret",
	})
	require.NoError(t, err)
	return u.ID
}

func TestRegister(t *testing.T) {
	svc, store := newUserService(t)

	u, err := svc.Register(context.Background(), service.RegisterInput{
		FirstName: " Ada ",
		LastName:  "Lovelace",
		Email:     " Ada@Example.com ",
		Password:  "secret",
	})
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "secret", u.PasswordHash)

	stored, ok := store.User(u.ID)
	require.True(t, ok)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)
	register(t, svc, "ada@example.com")

	_, err := svc.Register(context.Background(), service.RegisterInput{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "ADA@example.com",
		Password:  "x",
	})

	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, store := newUserService(t)

	for _, in := range []service.RegisterInput{
		{LastName: "L", Email: "a@b.c", Password: "p"},
		{FirstName: "F", Email: "a@b.c", Password: "p"},
		{FirstName: "F", LastName: "L", Email: "  ", Password: "p"},
		{FirstName: "F", LastName: "L", Email: "a@b.c"},
	} {
		_, err := svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, service.ErrValidation)
	}
	assert.Zero(t, store.Writes())
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newUserService(t)
	id := register(t, svc, "ada@example.com")
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, "ADA@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "", "secret")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestGetUser(t *testing.T) {
	svc, _ := newUserService(t)
	id := register(t, svc, "ada@example.com")

	u, err := svc.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)

	_, err = svc.GetUser(context.Background(), id+100)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateName(t *testing.T) {
	svc, store := newUserService(t)
	id := register(t, svc, "ada@example.com")

	require.NoError(t, svc.UpdateName(context.Background(), id, "Augusta", "King"))
	u, _ := store.User(id)
	assert.Equal(t, "Augusta", u.FirstName)
	assert.Equal(t, "King", u.LastName)
	assert.NotNil(t, u.UpdatedAt)

	assert.ErrorIs(t, svc.UpdateName(context.Background(), id, "", "King"), service.ErrValidation)
	assert.ErrorIs(t, svc.UpdateName(context.Background(), id+100, "A", "B"), service.ErrNotFound)
}

func TestUpdateEmail(t *testing.T) {
	svc, store := newUserService(t)
	id := register(t, svc, "ada@example.com")
	register(t, svc, "taken@example.com")
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateEmail(ctx, id, "wrong", "new@example.com"), service.ErrUnauthorized)
	assert.ErrorIs(t, svc.UpdateEmail(ctx, id, "secret", "taken@example.com"), service.ErrConflict)
	assert.ErrorIs(t, svc.UpdateEmail(ctx, id+100, "secret", "new@example.com"), service.ErrNotFound)

	require.NoError(t, svc.UpdateEmail(ctx, id, "secret", "New@Example.com"))
	u, _ := store.User(id)
	assert.Equal(t, "new@example.com", u.Email)
}

func TestUpdatePassword(t *testing.T) {
	svc, _ := newUserService(t)
	id := register(t, svc, "ada@example.com")
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdatePassword(ctx, id, "wrong", "next"), service.ErrUnauthorized)
	assert.ErrorIs(t, svc.UpdatePassword(ctx, id, "secret", ""), service.ErrValidation)

	require.NoError(t, svc.UpdatePassword(ctx, id, "secret", "next"))

	_, err := svc.Authenticate(ctx, "ada@example.com", "secret")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	_, err = svc.Authenticate(ctx, "ada@example.com", "next")
	assert.NoError(t, err)
}
