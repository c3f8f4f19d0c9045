package service

import (
	"context"
	"testing"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/config"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/dto"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var result []model.Usuario
	for _, u := range r.usuarios {
		if incluirInactivos || u.Activo {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func TestCrearUsuarioYLogin(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())

	user, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "maria", Password: "secreta123", Nombre: "Maria Lopez", Rol: "cajero",
	})
	require.NoError(t, err)
	assert.Equal(t, "cajero", user.Rol)
	assert.True(t, user.Activo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "secreta123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "maria", Password: "secreta123", Nombre: "Maria Lopez", Rol: "cajero",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "otra"})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "x"})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())

	user, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "maria", Password: "secreta123", Nombre: "Maria Lopez", Rol: "cajero",
	})
	require.NoError(t, err)
	require.NoError(t, svc.DesactivarUsuario(context.Background(), uuid.MustParse(user.ID)))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "secreta123"})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)
}

func TestCrearUsuario_Duplicado(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "maria", Password: "secreta123", Nombre: "Maria Lopez", Rol: "cajero",
	})
	require.NoError(t, err)

	_, err = svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "maria", Password: "otra12345", Nombre: "Otra Maria", Rol: "admin",
	})
	assert.ErrorIs(t, err, ErrUsuarioDuplicado)
}

func TestRefresh(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "maria", Password: "secreta123", Nombre: "Maria Lopez", Rol: "cajero",
	})
	require.NoError(t, err)
	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "secreta123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.Error(t, err)
}
