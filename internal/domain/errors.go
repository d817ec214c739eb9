package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
//
// Taxonomía:
//   - Validación:    ErrInvalidInput, ErrInvalidQuantity, ErrUnsupportedImage, ErrImageTooLarge
//   - Autorización:  ErrUnauthorized, ErrForbidden
//   - No encontrado: ErrNotFound, ErrUserNotFound, ErrListingUnavailable
//   - Conflicto:     ErrConflict, ErrInsufficientStock, ErrEmailAlreadyExists
//   - Transitorio:   ErrTransient (red o backend caído; el cliente puede reintentar)
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidQuantity    = errors.New("la cantidad debe ser mayor que cero y tener como máximo 3 decimales")
	ErrListingUnavailable = errors.New("el cultivo no existe o no está activo")
	ErrUnsupportedImage   = errors.New("solo se permiten imágenes JPG o PNG")
	ErrImageTooLarge      = errors.New("la imagen supera el tamaño máximo")
	ErrTransient          = errors.New("fallo temporal del backend")
)

// InsufficientStockError rechazo de compra que informa la cantidad realmente disponible
// para que el cliente pueda ajustar y reintentar.
type InsufficientStockError struct {
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: disponible %s", ErrInsufficientStock.Error(), e.Available.String())
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Transient envuelve un fallo de infraestructura como ErrTransient conservando la causa.
func Transient(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransient, err)
}
