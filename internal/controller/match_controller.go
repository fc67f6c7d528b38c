package controller

import (
	"petmatch/internal/dto"
	"petmatch/internal/pkg/serverutils"
	"petmatch/internal/repository/memory"
	"petmatch/internal/service"
	"petmatch/pkg/match"
	"petmatch/pkg/supabase"

	"github.com/gofiber/fiber/v2"
)

type IMatchController interface {
	RegisterRoutes(r fiber.Router, protected fiber.Handler)
	Search(ctx *fiber.Ctx) error
}

type matchController struct {
	service service.IMatchService
	boards  *memory.BoardRepository
}

func NewMatchController(service service.IMatchService, boards *memory.BoardRepository) IMatchController {
	return &matchController{
		service: service,
		boards:  boards,
	}
}

func (c *matchController) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	h := r.Group("/match")
	h.Use(protected)
	h.Post("/search", c.Search)
}

func (c *matchController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	token, _ := ctx.Locals(serverutils.LocalAccessToken).(string)
	board := c.boards.GetOrCreate(apiBoardKey(ctx))

	res := c.service.Search(supabase.WithAccessToken(ctx.UserContext(), token), board, req.Query)
	if res.Error != "" {
		code := searchFailureStatus(res)
		return ctx.Status(code).JSON(serverutils.Response{
			Success: false,
			Code:    code,
			Message: firstNonEmpty(res.Alert, res.Error),
			Data:    res,
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Search completed", res))
}

func searchFailureStatus(res *dto.SearchResponse) int {
	switch {
	case res.Error == match.MsgMissingAPIKey:
		return fiber.StatusServiceUnavailable
	case res.Alert == match.MsgQuotaExceeded:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusBadGateway
	}
}

// apiBoardKey keeps API display state apart from browser sessions.
func apiBoardKey(ctx *fiber.Ctx) string {
	userID, _ := ctx.Locals(serverutils.LocalUserID).(string)
	return "api:" + userID
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
