package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contabilidadcq-api/internal/application/auth"
	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/memory"
	"github.com/jhoicas/contabilidadcq-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, string) {
	t.Helper()
	st := memory.NewStore()
	area := st.AddArea("Contabilidad", entity.AreaCodeContabilidad)
	repos := st.Repos()
	return auth.NewAuthUseCase(repos.Users, repos.Catalogo, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"}), area
}

func TestRegisterYLogin(t *testing.T) {
	uc, area := newAuth(t)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{
		Email: "Contador@CQ.co", Password: "s3creta-larga", Name: "Contador", Role: entity.RoleContabilidad, AreaID: &area,
	})
	require.NoError(t, err)
	assert.Equal(t, "contador@cq.co", u.Email)
	assert.True(t, u.IsActive)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "contador@cq.co", Password: "otra-clave", Role: entity.RoleContabilidad, AreaID: &area})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "contador@cq.co", Password: "s3creta-larga"})
	require.NoError(t, err)
	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, area, claims.AreaID)
	assert.Equal(t, entity.RoleContabilidad, claims.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "contador@cq.co", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@cq.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegister_Validaciones(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@cq.co", Password: "12345678", Role: "vendedor"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@cq.co", Password: "12345678", Role: entity.RoleResponsable})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	missing := "no-existe"
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@cq.co", Password: "12345678", Role: entity.RoleResponsable, AreaID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "admin@cq.co", Password: "12345678", Role: entity.RoleAdmin})
	assert.NoError(t, err)
}
