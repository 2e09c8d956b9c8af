package dto

type CrearPacienteRequest struct {
	Nombre   string  `json:"nombre"   validate:"required"`
	Apellido string  `json:"apellido" validate:"required"`
	Telefono string  `json:"telefono" validate:"required,min=7"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type ActualizarPacienteRequest struct {
	Nombre   *string `json:"nombre"   validate:"omitempty,min=1"`
	Apellido *string `json:"apellido" validate:"omitempty,min=1"`
	Telefono *string `json:"telefono" validate:"omitempty,min=7"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type PacienteResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Apellido string  `json:"apellido"`
	Telefono string  `json:"telefono"`
	Email    *string `json:"email,omitempty"`
}
