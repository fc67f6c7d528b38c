package controller

import (
	"petmatch/internal/pkg/serverutils"
	"petmatch/internal/repository/memory"
	"petmatch/internal/service"
	"petmatch/pkg/match"
	"petmatch/pkg/supabase"

	"github.com/gofiber/fiber/v2"
)

type IDiagnosticsController interface {
	RegisterRoutes(r fiber.Router, protected fiber.Handler)
	ListModels(ctx *fiber.Ctx) error
	Ping(ctx *fiber.Ctx) error
}

type diagnosticsController struct {
	service service.IDiagnosticsService
	boards  *memory.BoardRepository
}

func NewDiagnosticsController(service service.IDiagnosticsService, boards *memory.BoardRepository) IDiagnosticsController {
	return &diagnosticsController{
		service: service,
		boards:  boards,
	}
}

func (c *diagnosticsController) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	h := r.Group("/diagnostics")
	h.Use(protected)
	h.Get("/models", c.ListModels)
	h.Get("/ping", c.Ping)
}

func (c *diagnosticsController) ListModels(ctx *fiber.Ctx) error {
	res := c.service.ListModels(ctx.UserContext(), c.boards.GetOrCreate(apiBoardKey(ctx)))
	if res.Error != "" {
		code := fiber.StatusBadGateway
		if res.Error == match.MsgMissingAPIKey {
			code = fiber.StatusServiceUnavailable
		}
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, res.Error))
	}
	return ctx.JSON(serverutils.SuccessResponse("Models listed", res))
}

func (c *diagnosticsController) Ping(ctx *fiber.Ctx) error {
	token, _ := ctx.Locals(serverutils.LocalAccessToken).(string)
	dataCtx := supabase.WithAccessToken(ctx.UserContext(), token)

	res := c.service.TestConnectivity(dataCtx, c.boards.GetOrCreate(apiBoardKey(ctx)))
	if !res.OK {
		return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.Response{
			Success: false,
			Code:    fiber.StatusBadGateway,
			Message: res.Status,
			Data:    res,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("Data store reachable", res))
}
