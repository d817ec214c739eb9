package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
	"github.com/jhoicas/farmlink-api/pkg/logger"
)

// ErrorMapper traduce errores de dominio a respuestas HTTP. Solo los 5xx se registran.
type ErrorMapper struct {
	log *logger.Logger
}

// NewErrorMapper construye el mapper.
func NewErrorMapper(log *logger.Logger) *ErrorMapper {
	if log == nil {
		log = logger.Nop()
	}
	return &ErrorMapper{log: log}
}

// Respond escribe la respuesta de error correspondiente a err.
func (m *ErrorMapper) Respond(c *fiber.Ctx, err error) error {
	status, body := m.classify(err)
	if status >= fiber.StatusInternalServerError {
		logger.FromContext(c.UserContext(), m.log).Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Msg("error en petición")
	}
	return c.Status(status).JSON(body)
}

// Handler ErrorHandler de Fiber para errores que escapan de los handlers (404 de rutas, panics recuperados).
func (m *ErrorMapper) Handler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			code = "BODY_TOO_LARGE"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return m.Respond(c, err)
}

func (m *ErrorMapper) classify(err error) (int, dto.ErrorResponse) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		available := stockErr.Available
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   "no hay cantidad suficiente disponible",
			Available: &available,
			Retryable: true,
		}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error(), Retryable: true}
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: domain.ErrInvalidQuantity.Error()}
	case errors.Is(err, domain.ErrUnsupportedImage):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "UNSUPPORTED_IMAGE", Message: domain.ErrUnsupportedImage.Error()}
	case errors.Is(err, domain.ErrImageTooLarge):
		return fiber.StatusRequestEntityTooLarge, dto.ErrorResponse{Code: "IMAGE_TOO_LARGE", Message: domain.ErrImageTooLarge.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas o sesión expirada", RedirectTo: access.LoginPath}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tienes permiso para este recurso", RedirectTo: access.HomePath}
	case errors.Is(err, domain.ErrListingUnavailable):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "LISTING_UNAVAILABLE", Message: domain.ErrListingUnavailable.Error()}
	case errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: domain.ErrUserNotFound.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: domain.ErrNotFound.Error()}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: domain.ErrEmailAlreadyExists.Error()}
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrTransient):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "TEMPORARILY_UNAVAILABLE", Message: "servicio no disponible temporalmente, intenta de nuevo", Retryable: true}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
