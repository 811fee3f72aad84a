// Package usecase administración de usuarios (alta, listado, baja). Toda
// mutación exige re-autenticación del administrador que la solicita.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Caja-api/internal/application/auth"
	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Reauthenticator verificación de credencial de administrador previa a
// operaciones de gestión de usuarios.
type Reauthenticator interface {
	Reauthenticate(ctx context.Context, adminID, password string) error
}

// UserUseCase casos de uso de gestión de usuarios.
type UserUseCase struct {
	userRepo repository.UserRepository
	reauth   Reauthenticator
}

// NewUserUseCase construye el caso de uso de usuarios.
func NewUserUseCase(userRepo repository.UserRepository, reauth Reauthenticator) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, reauth: reauth}
}

// Create da de alta un usuario. El rol por defecto es "user"; el nombre se
// normaliza a minúsculas. La credencial se almacena solo como hash bcrypt.
func (uc *UserUseCase) Create(ctx context.Context, adminID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := uc.reauth.Reauthenticate(ctx, adminID, in.AdminPassword); err != nil {
		return nil, err
	}

	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" {
		return nil, fmt.Errorf("%w: username requerido", domain.ErrValidation)
	}
	if len(in.Password) < 4 {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos 4 caracteres", domain.ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if role != entity.RoleAdmin && role != entity.RoleUser {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrValidation, in.Role)
	}

	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("verificar username: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("generar hash de contraseña: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("crear usuario: %w", err)
	}
	return auth.ToUserResponse(user), nil
}

// List devuelve todos los usuarios registrados.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}

// Delete elimina un usuario y, por cascada en la BD, todas sus sesiones con
// sus movimientos. Un administrador no puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, adminID, userID, adminPassword string) error {
	if err := uc.reauth.Reauthenticate(ctx, adminID, adminPassword); err != nil {
		return err
	}
	if adminID == userID {
		return fmt.Errorf("%w: un administrador no puede eliminarse a sí mismo", domain.ErrValidation)
	}
	target, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("buscar usuario: %w", err)
	}
	if target == nil {
		return domain.ErrUserNotFound
	}
	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("eliminar usuario: %w", err)
	}
	return nil
}
