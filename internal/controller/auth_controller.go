// FILE: internal/controller/auth_controller.go
package controller

import (
	"petmatch/internal/dto"
	"petmatch/internal/pkg/serverutils"
	"petmatch/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router, protected fiber.Handler)
	Session(ctx *fiber.Ctx) error
}

type authController struct{}

func NewAuthController() IAuthController {
	return &authController{}
}

func (c *authController) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	h := r.Group("/auth")
	h.Use(protected)
	h.Get("/session", c.Session)
}

// Session describes the caller identified by the bearer token.
func (c *authController) Session(ctx *fiber.Ctx) error {
	user, ok := ctx.Locals(serverutils.LocalUser).(*auth.User)
	if !ok {
		return fiber.ErrUnauthorized
	}
	return ctx.JSON(serverutils.SuccessResponse("Active session", dto.SessionResponse{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}))
}
