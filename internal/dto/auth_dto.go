package dto

// LoginRequest carries the PIN login form. The PIN is the clinic's short
// numeric access code, checked against the stored bcrypt hash.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Pin      string `json:"pin"      validate:"required,min=4,max=8,numeric"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	User        UsuarioResponse `json:"user"`
}

type UsuarioResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Nombre   string  `json:"nombre"`
	Email    *string `json:"email,omitempty"`
	Rol      string  `json:"rol"`
	Activo   bool    `json:"activo"`
}

type CrearUsuarioRequest struct {
	Username string  `json:"username" validate:"required,min=3"`
	Nombre   string  `json:"nombre"   validate:"required"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Pin      string  `json:"pin"      validate:"required,min=4,max=8,numeric"`
	Rol      string  `json:"rol"      validate:"required,oneof=operador administrador"`
}

type ActualizarUsuarioRequest struct {
	Nombre *string `json:"nombre" validate:"omitempty,min=1"`
	Email  *string `json:"email"  validate:"omitempty,email"`
	Pin    *string `json:"pin"    validate:"omitempty,min=4,max=8,numeric"`
	Rol    *string `json:"rol"    validate:"omitempty,oneof=operador administrador"`
}
