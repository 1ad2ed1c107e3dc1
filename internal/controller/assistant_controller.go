package controller

import (
	"errors"

	"ai-studybot-be/internal/dto"
	"ai-studybot-be/internal/pkg/serverutils"
	"ai-studybot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	ExportDocuments(ctx *fiber.Ctx) error
	ListTranscripts(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("sessions", c.CreateSession)
	h.Post("chat", c.SendChat)
	h.Get("sessions/:id", c.ShowSession)
	h.Post("sessions/:id/reset", c.ResetSession)
	h.Delete("sessions/:id", c.DeleteSession)
	h.Post("export", c.ExportDocuments)
	h.Get("transcripts", c.ListTranscripts)
}

// mapServiceError converts service sentinel errors into HTTP statuses.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNoDocuments), errors.Is(err, service.ErrExportDisabled),
		errors.Is(err, service.ErrArchiveDisabled):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func (c *assistantController) CreateSession(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	res, err := c.assistantService.CreateSession(ctx.Context(), userId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *assistantController) SendChat(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.SendChat(ctx.Context(), userId, &req)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *assistantController) ShowSession(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)
	sessionId := ctx.Params("id")

	res, err := c.assistantService.GetSession(ctx.Context(), userId, sessionId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *assistantController) ResetSession(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)
	sessionId := ctx.Params("id")

	res, err := c.assistantService.ResetSession(ctx.Context(), userId, sessionId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset session", res))
}

func (c *assistantController) DeleteSession(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)
	sessionId := ctx.Params("id")

	if err := c.assistantService.DeleteSession(ctx.Context(), userId, sessionId); err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", nil))
}

func (c *assistantController) ListTranscripts(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	res, err := c.assistantService.ListTranscripts(ctx.Context(), userId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list transcripts", res))
}

func (c *assistantController) ExportDocuments(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.ExportDocumentsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.assistantService.ExportDocuments(ctx.Context(), userId, &req); err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success export documents", nil))
}
