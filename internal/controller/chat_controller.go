package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/pkg/serverutils"
	"ai-chatbot-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Query(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService      service.IChatService
	widgetMiddleware fiber.Handler
}

func NewChatController(chatService service.IChatService, widgetMiddleware fiber.Handler) IChatController {
	return &chatController{
		chatService:      chatService,
		widgetMiddleware: widgetMiddleware,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(c.widgetMiddleware)
	h.Post("conversation", c.Start)
	h.Post("query", c.Query)
	h.Get("conversation/:id/history", c.History)
	h.Post("conversation/end", c.End)
}

func (c *chatController) Start(ctx *fiber.Ctx) error {
	scope := serverutils.ScopeFromLocals(ctx)
	if scope == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing tenant scope")
	}

	res, err := c.chatService.StartConversation(ctx.Context(), scope)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start conversation", res))
}

func (c *chatController) Query(ctx *fiber.Ctx) error {
	scope := serverutils.ScopeFromLocals(ctx)
	if scope == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing tenant scope")
	}

	var req dto.SendQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.HandleQuery(ctx.Context(), scope, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer query", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	scope := serverutils.ScopeFromLocals(ctx)
	if scope == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing tenant scope")
	}

	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid conversation id")
	}

	res, err := c.chatService.GetHistory(ctx.Context(), scope, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show history", res))
}

func (c *chatController) End(ctx *fiber.Ctx) error {
	scope := serverutils.ScopeFromLocals(ctx)
	if scope == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing tenant scope")
	}

	var req dto.EndConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.EndConversation(ctx.Context(), scope, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success end conversation", res))
}
