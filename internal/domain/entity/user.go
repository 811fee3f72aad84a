package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un operador del sistema (administrador o cajero).
// Al eliminar un User se eliminan en cascada sus sesiones de caja y,
// transitivamente, todos sus movimientos (regla de FK en el esquema).
type User struct {
	ID           string
	Username     string
	PasswordHash string // hash bcrypt, nunca en claro fuera del login
	Role         string // admin, user
	CreatedAt    time.Time
}

// IsAdmin indica si el usuario tiene rol de administrador.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
