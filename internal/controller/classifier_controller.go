package controller

import (
	"ai-studybot-be/internal/dto"
	"ai-studybot-be/internal/pkg/serverutils"
	"ai-studybot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IClassifierController interface {
	RegisterRoutes(r fiber.Router)
	Classify(ctx *fiber.Ctx) error
	Report(ctx *fiber.Ctx) error
	Agent(ctx *fiber.Ctx) error
	Help(ctx *fiber.Ctx) error
}

const helpText = `Send me a link to study material and I will classify it by subject and save it.
Ask for a report (e.g. "show my physics materials for the month") to see what you saved.
Anything else is treated as a regular question.

Subjects: Numerical Methods, Computer Networks, Python Programming, Physics, Other.
Report periods: week, month (default), quarter, year.`

type classifierController struct {
	classifierService service.IClassifierService
}

func NewClassifierController(classifierService service.IClassifierService) IClassifierController {
	return &classifierController{
		classifierService: classifierService,
	}
}

func (c *classifierController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/classifier/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("classify", c.Classify)
	h.Post("report", c.Report)
	h.Post("agent", c.Agent)
	h.Get("help", c.Help)
}

func (c *classifierController) Help(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get help", fiber.Map{
		"help": helpText,
	}))
}

func (c *classifierController) Classify(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.ClassifyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.classifierService.Classify(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success classify material", res))
}

func (c *classifierController) Report(ctx *fiber.Ctx) error {
	var req dto.ReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.classifierService.Report(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success build report", res))
}

func (c *classifierController) Agent(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.AgentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.classifierService.HandleMessage(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success handle message", res))
}
