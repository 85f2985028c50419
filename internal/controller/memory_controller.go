package controller

import (
	"ipecd-chatbot-be/internal/pkg/serverutils"
	"ipecd-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMemoryController interface {
	RegisterRoutes(r fiber.Router)
	Stats(ctx *fiber.Ctx) error
	Suggestions(ctx *fiber.Ctx) error
	Recent(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type memoryController struct {
	memoryService service.IMemoryService
}

func NewMemoryController(memoryService service.IMemoryService) IMemoryController {
	return &memoryController{
		memoryService: memoryService,
	}
}

func (c *memoryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/memory")
	h.Get("/stats", c.Stats)
	h.Get("/suggestions", c.Suggestions)
	h.Get("/recent", c.Recent)
	h.Get("/export", c.Export)
}

func (c *memoryController) Stats(ctx *fiber.Ctx) error {
	res, err := c.memoryService.Stats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success memory stats", res))
}

func (c *memoryController) Suggestions(ctx *fiber.Ctx) error {
	q := ctx.Query("q", "")
	limit := ctx.QueryInt("limit", 5)

	res, err := c.memoryService.Suggestions(ctx.Context(), q, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success memory suggestions", res))
}

func (c *memoryController) Recent(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)

	res, err := c.memoryService.Recent(ctx.Context(), limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success recent chats", res))
}

func (c *memoryController) Export(ctx *fiber.Ctx) error {
	res, err := c.memoryService.Export(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success memory export", res))
}
