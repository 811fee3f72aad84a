package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrUsernameTaken      = errors.New("el nombre de usuario ya está registrado")
	ErrValidation         = errors.New("entrada inválida")
	ErrSessionAlreadyOpen = errors.New("el cajero ya tiene una sesión de caja abierta")
	ErrSessionClosed      = errors.New("la sesión de caja ya está cerrada")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrMigration          = errors.New("migración de esquema fallida")
)
