package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReauthRequest re-ingreso de la credencial de administrador exigido por las
// operaciones privilegiadas (editar/eliminar sesiones cerradas, gestionar usuarios).
type ReauthRequest struct {
	AdminPassword string `json:"admin_password"`
}
