package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
)

// pageFromQuery lee ?limit=&offset= con los topes de DefaultPage.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	return page
}
