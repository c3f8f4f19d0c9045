package dto

// Thin DTOs for the supporting catalog stores the posting engine reads from
// (suppliers, presentaciones, payment methods).

type CrearProveedorRequest struct {
	Nombre    string  `json:"nombre" validate:"required,min=2"`
	NIT       *string `json:"nit"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
}

type ProveedorResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	NIT       *string `json:"nit,omitempty"`
	Telefono  *string `json:"telefono,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
	Activo    bool    `json:"activo"`
}

type CrearPresentacionRequest struct {
	Nombre       string  `json:"nombre" validate:"required,min=2"`
	CodigoBarras *string `json:"codigo_barras"`
}

type PresentacionResponse struct {
	ID           string  `json:"id"`
	Nombre       string  `json:"nombre"`
	CodigoBarras *string `json:"codigo_barras,omitempty"`
	Activo       bool    `json:"activo"`
}

type CrearMetodoPagoRequest struct {
	Nombre             string `json:"nombre" validate:"required,min=2"`
	AfectaCaja         bool   `json:"afecta_caja"`
	RequiereReferencia bool   `json:"requiere_referencia"`
}

type MetodoPagoResponse struct {
	ID                 string `json:"id"`
	Nombre             string `json:"nombre"`
	AfectaCaja         bool   `json:"afecta_caja"`
	RequiereReferencia bool   `json:"requiere_referencia"`
	Activo             bool   `json:"activo"`
}
