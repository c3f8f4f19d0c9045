package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/apierror"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/middleware"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// currentUserID extracts the authenticated user's id from the JWT claims.
// Nil when the route is not behind JWTAuth or the claim is malformed.
func currentUserID(c *gin.Context) *uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &id
}

// parseUUIDParam parses a path parameter as UUID, answering 400 on failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Identificador inválido: "+name))
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps typed service errors onto HTTP responses.
// State conflicts answer 409 with structured data; validation errors answer
// 400; anything unrecognized goes through the ErrorHandler middleware as 500.
func respondServiceError(c *gin.Context, err error) {
	var fondos *service.ErrFondosInsuficientes
	var stock *service.ErrStockInsuficiente
	var presentaciones *service.ErrPresentacionesInvalidas

	switch {
	case errors.As(err, &fondos):
		c.JSON(http.StatusConflict, apierror.NewConflict(err.Error(), map[string]interface{}{
			"disponible": fondos.Disponible.StringFixed(2),
			"solicitado": fondos.Solicitado.StringFixed(2),
		}))
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, apierror.NewConflict(err.Error(), map[string]interface{}{
			"presentacion_id": stock.PresentacionID.String(),
			"requerido":       stock.Requerido.StringFixed(2),
			"disponible":      stock.Disponible.StringFixed(2),
		}))
	case errors.As(err, &presentaciones):
		ids := make([]string, 0, len(presentaciones.IDs))
		for _, id := range presentaciones.IDs {
			ids = append(ids, id.String())
		}
		c.JSON(http.StatusBadRequest, apierror.NewConflict(err.Error(), map[string]interface{}{
			"presentaciones": ids,
		}))
	case errors.Is(err, service.ErrCompraNoEncontrada),
		errors.Is(err, service.ErrSesionNoEncontrada),
		errors.Is(err, service.ErrUsuarioNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCajaYaAbierta),
		errors.Is(err, service.ErrSinSesionAbierta),
		errors.Is(err, service.ErrCajaCerrada),
		errors.Is(err, service.ErrCompraYaAnulada):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrMontoInvalido),
		errors.Is(err, service.ErrMontoNoPositivo),
		errors.Is(err, service.ErrCompraSinLineas),
		errors.Is(err, service.ErrProveedorNoEncontrado),
		errors.Is(err, service.ErrMetodoPagoNoEncontrado),
		errors.Is(err, service.ErrReferenciaRequerida):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
