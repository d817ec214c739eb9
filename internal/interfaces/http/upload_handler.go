package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/application/media"
)

// UploadHandler subida de imágenes de cultivos.
type UploadHandler struct {
	uc     *media.UseCase
	errors *ErrorMapper
}

// NewUploadHandler construye el handler.
func NewUploadHandler(uc *media.UseCase, errors *ErrorMapper) *UploadHandler {
	return &UploadHandler{uc: uc, errors: errors}
}

// UploadImage godoc
// @Summary      Subir imagen de cultivo
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "JPG o PNG, máximo 5 MB"
// @Success      201  {object}  dto.UploadImageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Router       /api/uploads/images [post]
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "el campo image es requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return h.errors.Respond(c, err)
	}
	defer f.Close()

	out, err := h.uc.UploadImage(c.UserContext(), GetSession(c), fh.Filename, fh.Size, f)
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
