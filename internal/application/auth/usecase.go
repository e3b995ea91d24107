package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
	"github.com/jhoicas/contabilidadcq-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	catalogRepo repository.CatalogRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, catalogRepo repository.CatalogRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, catalogRepo: catalogRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste. Todo rol distinto de admin
// debe pertenecer a un área existente.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !validRole(in.Role) {
		return nil, fmt.Errorf("%w: rol %q no reconocido", domain.ErrInvalidInput, in.Role)
	}
	if email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: email y contraseña de al menos 8 caracteres son obligatorios", domain.ErrInvalidInput)
	}
	if in.AreaID == nil && in.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: el rol %s requiere área", domain.ErrInvalidInput, in.Role)
	}
	if in.AreaID != nil {
		area, err := uc.catalogRepo.GetArea(ctx, *in.AreaID)
		if err != nil {
			return nil, err
		}
		if area == nil {
			return nil, fmt.Errorf("%w: área %s", domain.ErrNotFound, *in.AreaID) // área no existe
		}
	}
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el email %s ya está registrado", domain.ErrDuplicate, email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		AreaID:       in.AreaID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	out := dto.UserFrom(user)
	return &out, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	areaID := ""
	if user.AreaID != nil {
		areaID = *user.AreaID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, areaID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  dto.UserFrom(user),
	}, nil
}

func validRole(r string) bool {
	switch r {
	case entity.RoleAdmin, entity.RoleFacturacion, entity.RoleResponsable, entity.RoleContabilidad, entity.RoleTesoreria:
		return true
	}
	return false
}
