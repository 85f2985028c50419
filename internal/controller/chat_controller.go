package controller

import (
	"ipecd-chatbot-be/internal/dto"
	"ipecd-chatbot-be/internal/pkg/serverutils"
	"ipecd-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Menu(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	ExecuteTool(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Get("/chat/menu", c.Menu)
	r.Post("/chat/reset", c.Reset)
	r.Post("/tool", c.ExecuteTool)
	r.Get("/health", c.Health)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *chatController) Menu(ctx *fiber.Ctx) error {
	res := c.chatService.Menu(ctx.Context(), ctx.Query("session_id"))
	return ctx.JSON(serverutils.SuccessResponse("Success menu", res))
}

func (c *chatController) Reset(ctx *fiber.Ctx) error {
	// The session id may arrive in the body or as a query parameter; an
	// empty body resets the default session.
	var req dto.ResetRequest
	_ = ctx.BodyParser(&req)
	if req.SessionID == "" {
		req.SessionID = ctx.Query("session_id")
	}

	res := c.chatService.Reset(ctx.Context(), req.SessionID)
	return ctx.JSON(serverutils.SuccessResponse("Success reset", res))
}

func (c *chatController) ExecuteTool(ctx *fiber.Ctx) error {
	var req dto.ToolRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.ExecuteTool(ctx.Context(), &req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success execute tool", res))
}

func (c *chatController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.chatService.Health(ctx.Context()))
}
