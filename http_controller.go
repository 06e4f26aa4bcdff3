package auth

import (
	"fmt"

	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the admin routes
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// RegisterAdminRoutes mounts the admin endpoints on app. Every route except
// register and login runs behind protected.
func RegisterAdminRoutes(app RouteRegistrar, controller *HTTPController, protected router.MiddlewareFunc) {
	app.Post(controller.Routes.Register, controller.Register).SetName("admin.register")
	app.Post(controller.Routes.Login, controller.Login).SetName("admin.login")

	app.Post(controller.Routes.Logout, controller.Logout, protected).SetName("admin.logout")
	app.Get(controller.Routes.Check, controller.Check, protected).SetName("admin.check")
	app.Get(controller.Routes.Admins, controller.ListAccounts, protected).SetName("admin.list")
	app.Post(controller.Routes.Hold, controller.HoldToggle, protected).SetName("admin.hold")
	app.Post(controller.Routes.ChangePassword, controller.ChangePassword, protected).SetName("admin.change-password")
	app.Delete(fmt.Sprintf("%s/:id", controller.Routes.Admins), controller.DeleteAccount, protected).
		SetName("admin.delete")
}

type HTTPControllerRoutes struct {
	Register       string
	Login          string
	Logout         string
	Check          string
	Admins         string
	Hold           string
	ChangePassword string
}

type HTTPController struct {
	Debug      bool
	Logger     Logger
	Service    *AccountService
	Routes     *HTTPControllerRoutes
	ContextKey string
}

type HTTPControllerOption func(*HTTPController) *HTTPController

// WithControllerService sets the account service backing the handlers
func WithControllerService(svc *AccountService) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Service = svc
		return c
	}
}

// WithControllerLogger sets the controller logger
func WithControllerLogger(logger Logger) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerDebug dumps responses to the logger
func WithControllerDebug(debug bool) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Debug = debug
		return c
	}
}

// WithControllerContextKey sets the Locals key the JWT middleware writes to
func WithControllerContextKey(key string) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		if key != "" {
			c.ContextKey = key
		}
		return c
	}
}

func NewHTTPController(opts ...HTTPControllerOption) *HTTPController {
	c := &HTTPController{
		Logger:     defLogger{},
		ContextKey: DefaultContextKey,
		Routes: &HTTPControllerRoutes{
			Register:       "/register",
			Login:          "/login",
			Logout:         "/logout",
			Check:          "/check",
			Admins:         "/admins",
			Hold:           "/hold",
			ChangePassword: "/change-password",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Service == nil {
		panic("Missing AccountService in admin controller...")
	}

	return c
}

func (h *HTTPController) Register(ctx router.Context) error {
	payload := new(RegisterAccountMessage)
	if err := ctx.Bind(payload); err != nil {
		h.Logger.Debug("register parse payload", "error", err)
		return h.fail(ctx, ErrMissingRegistrationFields)
	}

	if _, err := h.Service.Register(ctx.Context(), *payload); err != nil {
		return h.fail(ctx, err)
	}

	return h.send(ctx, Created(MsgRegistered, nil), nil)
}

func (h *HTTPController) Login(ctx router.Context) error {
	payload := new(LoginMessage)
	if err := ctx.Bind(payload); err != nil {
		h.Logger.Debug("login parse payload", "error", err)
		return h.fail(ctx, ErrMissingCredentials)
	}

	result, err := h.Service.Login(ctx.Context(), *payload)
	if err != nil {
		return h.fail(ctx, err)
	}

	return h.send(ctx, OK(MsgLoginSuccessful, result), map[string]any{
		"token":    result.Token,
		"username": result.Username,
		"role":     result.Role,
	})
}

func (h *HTTPController) Logout(ctx router.Context) error {
	if err := h.Service.Logout(ctx.Context(), h.caller(ctx)); err != nil {
		return h.fail(ctx, err)
	}
	return h.send(ctx, OK(MsgLoggedOut, nil), nil)
}

func (h *HTTPController) Check(ctx router.Context) error {
	identity, err := h.Service.CheckAuth(ctx.Context(), h.caller(ctx))
	if err != nil {
		return h.fail(ctx, err)
	}
	claims, _ := h.claims(ctx)
	return ctx.JSON(router.StatusOK, map[string]any{"user": NewSession(identity, claims)})
}

// ListAccounts responds with a bare JSON array
func (h *HTTPController) ListAccounts(ctx router.Context) error {
	accounts, err := h.Service.ListAccounts(ctx.Context(), h.caller(ctx))
	if err != nil {
		return h.fail(ctx, err)
	}

	if h.Debug {
		h.Logger.Debug("admin list", "accounts", print.MaybePrettyJSON(accounts))
	}

	return ctx.JSON(router.StatusOK, accounts)
}

func (h *HTTPController) HoldToggle(ctx router.Context) error {
	payload := new(HoldToggleMessage)
	if err := ctx.Bind(payload); err != nil {
		h.Logger.Debug("hold parse payload", "error", err)
		return h.fail(ctx, ErrMissingTargetUsername)
	}

	state, err := h.Service.HoldToggle(ctx.Context(), h.caller(ctx), payload.Username)
	if err != nil {
		return h.fail(ctx, err)
	}

	return h.send(ctx, OK(HoldMessage(state), nil), nil)
}

func (h *HTTPController) ChangePassword(ctx router.Context) error {
	payload := new(ChangePasswordMessage)
	if err := ctx.Bind(payload); err != nil {
		h.Logger.Debug("change password parse payload", "error", err)
		return h.fail(ctx, ErrMissingPasswordFields)
	}

	if err := h.Service.ChangePassword(ctx.Context(), h.caller(ctx), *payload); err != nil {
		return h.fail(ctx, err)
	}

	return h.send(ctx, OK(MsgPasswordChanged, nil), nil)
}

func (h *HTTPController) DeleteAccount(ctx router.Context) error {
	caller := h.caller(ctx)
	if _, err := RequireIdentity(caller); err != nil {
		return h.fail(ctx, err)
	}

	id, err := ParseAccountID(ctx.Param("id", ""))
	if err != nil {
		return h.fail(ctx, err)
	}

	if err := h.Service.DeleteAccount(ctx.Context(), caller, id); err != nil {
		res := ResultFromError(err)
		if res.Status == StatusServerError {
			h.logFailure(ctx, err)
			res.Message = MsgDeleteFailed
		}
		return h.send(ctx, res, nil)
	}

	return h.send(ctx, OK(MsgAccountDeleted, nil), nil)
}

// caller resolves the identity set by the JWT middleware, first from the
// user context and then from Locals.
func (h *HTTPController) caller(ctx router.Context) *Identity {
	if identity, ok := IdentityFromContext(ctx.Context()); ok {
		return &identity
	}

	claims, ok := h.claims(ctx)
	if !ok {
		return nil
	}

	identity, err := IdentityFromClaims(claims)
	if err != nil {
		h.Logger.Debug("claims without identity", "error", err)
		return nil
	}
	return &identity
}

// claims returns the verified token claims, from Locals or the request context
func (h *HTTPController) claims(ctx router.Context) (AuthClaims, bool) {
	if claims, ok := GetRouterClaims(ctx, h.ContextKey); ok {
		return claims, true
	}
	return GetClaims(ctx.Context())
}

func (h *HTTPController) fail(ctx router.Context, err error) error {
	res := ResultFromError(err)
	if res.Status == StatusServerError {
		h.logFailure(ctx, err)
	}
	return h.send(ctx, res, nil)
}

func (h *HTTPController) logFailure(ctx router.Context, err error) {
	h.Logger.Error("admin request failed", "method", ctx.Method(), "path", ctx.Path(), "error", print.MaybePrettyJSON(err))
}

func (h *HTTPController) send(ctx router.Context, res Result, extra map[string]any) error {
	body := map[string]any{"message": res.Message}
	for k, v := range extra {
		body[k] = v
	}

	if h.Debug {
		h.Logger.Debug("admin response", "status", res.Status, "body", print.MaybePrettyJSON(body))
	}

	return ctx.JSON(res.Status.HTTPStatus(), body)
}
