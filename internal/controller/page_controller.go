// FILE: internal/controller/page_controller.go
package controller

import (
	"context"
	"errors"
	"time"

	"petmatch/internal/dto"
	"petmatch/internal/pkg/logger"
	"petmatch/internal/pkg/serverutils"
	"petmatch/internal/repository/memory"
	"petmatch/internal/service"
	"petmatch/internal/web"
	"petmatch/pkg/auth"
	"petmatch/pkg/render"
	"petmatch/pkg/supabase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	loginPath = "/login"
	homePath  = "/"

	loginTheme = "dark"
)

type IPageController interface {
	RegisterRoutes(r fiber.Router)
	LoginPage(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	SignUp(ctx *fiber.Ctx) error
	Home(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	ListModels(ctx *fiber.Ctx) error
	Ping(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

// CookieConfig describes the browser session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type pageController struct {
	authService        service.IAuthService
	matchService       service.IMatchService
	diagnosticsService service.IDiagnosticsService
	provider           auth.Provider
	boards             *memory.BoardRepository
	renderer           *web.Renderer
	markdown           *render.Markdown
	cookie             CookieConfig
	logger             logger.ILogger
}

func NewPageController(
	authService service.IAuthService,
	matchService service.IMatchService,
	diagnosticsService service.IDiagnosticsService,
	provider auth.Provider,
	boards *memory.BoardRepository,
	renderer *web.Renderer,
	markdown *render.Markdown,
	cookie CookieConfig,
	log logger.ILogger,
) IPageController {
	return &pageController{
		authService:        authService,
		matchService:       matchService,
		diagnosticsService: diagnosticsService,
		provider:           provider,
		boards:             boards,
		renderer:           renderer,
		markdown:           markdown,
		cookie:             cookie,
		logger:             log,
	}
}

func (c *pageController) RegisterRoutes(r fiber.Router) {
	r.Get(loginPath, c.LoginPage)
	r.Post(loginPath, c.Login)
	r.Post("/signup", c.SignUp)

	gate := serverutils.SessionGate(c.provider, c.cookie.Name, loginPath, c.logger)
	r.Get(homePath, gate, c.Home)
	r.Post("/search", gate, c.Search)
	r.Post("/models", gate, c.ListModels)
	r.Post("/ping", gate, c.Ping)
	r.Post("/logout", gate, c.Logout)
}

func (c *pageController) LoginPage(ctx *fiber.Ctx) error {
	if _, err := c.provider.GetSession(ctx.UserContext(), ctx.Cookies(c.cookie.Name)); err == nil {
		return ctx.Redirect(homePath, fiber.StatusSeeOther)
	}
	return c.renderLogin(ctx, fiber.StatusOK, web.LoginPage{})
}

func (c *pageController) Login(ctx *fiber.Ctx) error {
	req, page, ok := c.parseCredentials(ctx)
	if !ok {
		return c.renderLogin(ctx, fiber.StatusBadRequest, page)
	}

	sessionID, err := c.authService.Login(ctx.UserContext(), req)
	if err != nil {
		page.Error = authMessage(err)
		return c.renderLogin(ctx, fiber.StatusUnauthorized, page)
	}

	c.setSessionCookie(ctx, sessionID)
	return ctx.Redirect(homePath, fiber.StatusSeeOther)
}

func (c *pageController) SignUp(ctx *fiber.Ctx) error {
	req, page, ok := c.parseCredentials(ctx)
	if !ok {
		return c.renderLogin(ctx, fiber.StatusBadRequest, page)
	}

	sessionID, err := c.authService.Register(ctx.UserContext(), req)
	if errors.Is(err, auth.ErrConfirmationPending) {
		page.Notice = err.Error()
		return c.renderLogin(ctx, fiber.StatusOK, page)
	}
	if err != nil {
		page.Error = authMessage(err)
		return c.renderLogin(ctx, fiber.StatusBadRequest, page)
	}

	c.setSessionCookie(ctx, sessionID)
	return ctx.Redirect(homePath, fiber.StatusSeeOther)
}

func (c *pageController) Home(ctx *fiber.Ctx) error {
	session := ctx.Locals(serverutils.LocalSession).(*auth.Session)
	board := c.boards.GetOrCreate(ctx.Locals(serverutils.LocalSessionID).(string))

	view := board.Snapshot()
	alert := board.TakeAlert()

	ctx.Type("html", "utf-8")
	return c.renderer.Render(ctx, "index.html", web.IndexPage{
		Email:        session.User.Email,
		Query:        view.Query,
		Loading:      view.Loading,
		ResultHTML:   c.markdown.Render(view.Result),
		Error:        view.Error,
		Alert:        alert,
		ModelsText:   view.ModelsText,
		StoreLoading: view.StoreLoading,
		StoreStatus:  view.StoreStatus,
	})
}

func (c *pageController) Search(ctx *fiber.Ctx) error {
	query := utils.CopyString(ctx.FormValue("query"))
	board := c.boards.GetOrCreate(ctx.Locals(serverutils.LocalSessionID).(string))

	c.matchService.Search(c.dataContext(ctx), board, query)
	return ctx.Redirect(homePath, fiber.StatusSeeOther)
}

func (c *pageController) ListModels(ctx *fiber.Ctx) error {
	board := c.boards.GetOrCreate(ctx.Locals(serverutils.LocalSessionID).(string))

	c.diagnosticsService.ListModels(ctx.UserContext(), board)
	return ctx.Redirect(homePath, fiber.StatusSeeOther)
}

func (c *pageController) Ping(ctx *fiber.Ctx) error {
	board := c.boards.GetOrCreate(ctx.Locals(serverutils.LocalSessionID).(string))

	c.diagnosticsService.TestConnectivity(c.dataContext(ctx), board)
	return ctx.Redirect(homePath, fiber.StatusSeeOther)
}

// Logout only asks the provider to end the session. The gate sends the
// browser to the login page on its next request.
func (c *pageController) Logout(ctx *fiber.Ctx) error {
	if err := c.authService.Logout(ctx.UserContext(), ctx.Locals(serverutils.LocalSessionID).(string)); err != nil {
		c.logger.Error("PageController", "Logout failed", map[string]interface{}{"error": err.Error()})
	}
	return ctx.Redirect(homePath, fiber.StatusSeeOther)
}

func (c *pageController) parseCredentials(ctx *fiber.Ctx) (*dto.LoginRequest, web.LoginPage, bool) {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, web.LoginPage{Error: "Invalid request body"}, false
	}

	page := web.LoginPage{Email: req.Email}
	if err := serverutils.ValidateRequest(req); err != nil {
		page.Error = errorMessage(err)
		return nil, page, false
	}
	return &req, page, true
}

func (c *pageController) renderLogin(ctx *fiber.Ctx, status int, page web.LoginPage) error {
	page.Theme = loginTheme
	page.Providers = []string{}

	ctx.Status(status)
	ctx.Type("html", "utf-8")
	return c.renderer.Render(ctx, "login.html", page)
}

func (c *pageController) setSessionCookie(ctx *fiber.Ctx, sessionID string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     c.cookie.Name,
		Value:    sessionID,
		Path:     "/",
		Expires:  time.Now().Add(c.cookie.TTL),
		Secure:   c.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// dataContext runs data store calls as the signed-in user.
func (c *pageController) dataContext(ctx *fiber.Ctx) context.Context {
	token, _ := ctx.Locals(serverutils.LocalAccessToken).(string)
	return supabase.WithAccessToken(ctx.UserContext(), token)
}

func authMessage(err error) string {
	var sbErr *supabase.Error
	if errors.As(err, &sbErr) {
		return sbErr.Message
	}
	return "Authentication failed"
}

func errorMessage(err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}
