package services

import (
	"context"
	"testing"

	"gameslibrary/internal/auth"
	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	*fakeIdentities
	createErr error
}

func (f fakeAccounts) FindByUsername(_ context.Context, username string) (models.Identity, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.Identity{}, domain.NotFoundError{Resource: "user"}
}

func (f fakeAccounts) FindByID(_ context.Context, id int64) (models.Identity, error) {
	if f.lookupErr != nil {
		return models.Identity{}, f.lookupErr
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.Identity{}, domain.NotFoundError{Resource: "user"}
}

func (f fakeAccounts) List(context.Context) ([]models.Identity, error) {
	out := []models.Identity{}
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f fakeAccounts) Create(_ context.Context, u models.Identity, password string) (models.Identity, error) {
	if f.createErr != nil {
		return models.Identity{}, f.createErr
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Identity{}, err
	}
	u.ID = int64(len(f.users) + 100)
	u.PasswordHash = hash
	f.users[u.Email] = u
	return u, nil
}

func newAccountService(t *testing.T) (AccountService, fakeAccounts) {
	t.Helper()
	tokens, err := auth.NewAccessTokens(tokenCfg)
	require.NoError(t, err)
	store := fakeAccounts{fakeIdentities: newFakeIdentities()}
	return AccountService{Users: store, Tokens: tokens}, store
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: " carol ", Email: "c@b.com", Password: "Str0ng!pass"})
	require.NoError(t, err)
	assert.Equal(t, "carol", u.Username)
	assert.Equal(t, models.RoleClient, u.Role)

	for _, login := range []string{"c@b.com", "carol"} {
		res, err := svc.Login(ctx, login, "Str0ng!pass")
		require.NoError(t, err, login)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, int64(auth.DefaultAccessTTL.Seconds()), res.ExpiresIn)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _ := newAccountService(t)
	_, err := svc.Register(context.Background(), RegisterInput{Username: "dave", Email: "d@b.com", Password: "weak"})
	require.Error(t, err)
	var ve domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, store := newAccountService(t)
	store.createErr = domain.ConflictError{Resource: "user"}
	svc.Users = store

	_, err := svc.Register(context.Background(), RegisterInput{Username: "dave", Email: "d@b.com", Password: "Str0ng!pass"})
	assert.True(t, domain.IsConflict(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "erin", Email: "e@b.com", Password: "Str0ng!pass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "e@b.com", "Wr0ng!pass")
	assert.True(t, domain.IsUnauthorized(err))

	_, err = svc.Login(ctx, "ghost", "Str0ng!pass")
	assert.True(t, domain.IsUnauthorized(err))
}

func TestGetUser(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Username: "gina", Email: "g@b.com", Password: "Str0ng!pass"})
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "g@b.com", got.Email)

	_, err = svc.GetUser(ctx, 999)
	assert.True(t, domain.IsNotFound(err))
}

func TestUpdatePassword(t *testing.T) {
	svc, store := newAccountService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Username: "hank", Email: "h@b.com", Password: "Str0ng!pass"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(ctx, u.ID, "Str0ng!pass", "N3w!password"))
	require.Equal(t, 1, store.changeCount())
	assert.Equal(t, passwordChange{UserID: u.ID, Credential: "", Password: "N3w!password"}, store.changes[0])
}

func TestUpdatePasswordRejectsWithoutMutation(t *testing.T) {
	svc, store := newAccountService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Username: "ivy", Email: "i@b.com", Password: "Str0ng!pass"})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, u.ID, "Wr0ng!pass", "N3w!password")
	var ve domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "currentPassword", ve.Field)

	err = svc.UpdatePassword(ctx, u.ID, "Str0ng!pass", "weak")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "newPassword", ve.Field)

	err = svc.UpdatePassword(ctx, 999, "Str0ng!pass", "N3w!password")
	assert.True(t, domain.IsNotFound(err))

	assert.Zero(t, store.changeCount())
}

func TestUpdatePasswordStoreFailures(t *testing.T) {
	svc, store := newAccountService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Username: "jack", Email: "j@b.com", Password: "Str0ng!pass"})
	require.NoError(t, err)

	store.changeErr = domain.ConflictError{Resource: "user"}
	assert.True(t, domain.IsConflict(svc.UpdatePassword(ctx, u.ID, "Str0ng!pass", "N3w!password")))

	store.changeErr = errStoreDown
	err = svc.UpdatePassword(ctx, u.ID, "Str0ng!pass", "N3w!password")
	assert.True(t, domain.IsUpstream(err))
	assert.ErrorIs(t, err, errStoreDown)

	store.changeErr = nil
	store.lookupErr = errStoreDown
	assert.True(t, domain.IsUpstream(svc.UpdatePassword(ctx, u.ID, "Str0ng!pass", "N3w!password")))
}
