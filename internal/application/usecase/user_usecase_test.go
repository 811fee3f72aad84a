package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

type fakeUserRepo struct {
	byID       map[string]*entity.User
	byUsername map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*entity.User{}, byUsername: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	cp := *u
	r.byID[u.ID] = &cp
	r.byUsername[u.Username] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.byID[id], nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.byUsername[username], nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if u, ok := r.byID[id]; ok {
		delete(r.byUsername, u.Username)
		delete(r.byID, id)
	}
	return nil
}

type fakeReauth struct {
	err   error
	calls int
}

func (f *fakeReauth) Reauthenticate(_ context.Context, _, _ string) error {
	f.calls++
	return f.err
}

func TestCreate_AltaConRolPorDefecto(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo, &fakeReauth{})

	resp, err := uc.Create(context.Background(), "admin-id", dto.CreateUserRequest{
		Username: "  Cajero1 ", Password: "secreta", AdminPassword: "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, "cajero1", resp.Username, "el nombre se normaliza")
	assert.Equal(t, entity.RoleUser, resp.Role)

	stored := repo.byUsername["cajero1"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreta", stored.PasswordHash, "jamás se guarda la credencial en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreta")))
}

func TestCreate_UsernameDuplicado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo, &fakeReauth{})

	_, err := uc.Create(context.Background(), "admin-id", dto.CreateUserRequest{
		Username: "ana", Password: "secreta", AdminPassword: "admin",
	})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), "admin-id", dto.CreateUserRequest{
		Username: "ANA", Password: "otra", AdminPassword: "admin",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestCreate_Validaciones(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo, &fakeReauth{})

	cases := []dto.CreateUserRequest{
		{Username: "", Password: "secreta", AdminPassword: "admin"},
		{Username: "ana", Password: "abc", AdminPassword: "admin"},
		{Username: "ana", Password: "secreta", Role: "superuser", AdminPassword: "admin"},
	}
	for _, in := range cases {
		_, err := uc.Create(context.Background(), "admin-id", in)
		assert.ErrorIs(t, err, domain.ErrValidation, "entrada %+v", in)
	}
	assert.Empty(t, repo.byID)
}

func TestCreate_ReauthFallidaBloqueaElAlta(t *testing.T) {
	repo := newFakeUserRepo()
	reauth := &fakeReauth{err: domain.ErrUnauthorized}
	uc := usecase.NewUserUseCase(repo, reauth)

	_, err := uc.Create(context.Background(), "admin-id", dto.CreateUserRequest{
		Username: "ana", Password: "secreta", AdminPassword: "mala",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, repo.byID)
}

func TestDelete_NoPermiteAutoeliminarse(t *testing.T) {
	repo := newFakeUserRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.User{ID: "admin-id", Username: "admin", Role: entity.RoleAdmin}))
	uc := usecase.NewUserUseCase(repo, &fakeReauth{})

	err := uc.Delete(context.Background(), "admin-id", "admin-id", "admin")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotEmpty(t, repo.byID)
}

func TestDelete_UsuarioInexistente(t *testing.T) {
	uc := usecase.NewUserUseCase(newFakeUserRepo(), &fakeReauth{})

	err := uc.Delete(context.Background(), "admin-id", "fantasma", "admin")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDelete_EliminaAlUsuario(t *testing.T) {
	repo := newFakeUserRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.User{ID: "u1", Username: "ana", Role: entity.RoleUser}))
	uc := usecase.NewUserUseCase(repo, &fakeReauth{})

	require.NoError(t, uc.Delete(context.Background(), "admin-id", "u1", "admin"))
	assert.Empty(t, repo.byID)
}
