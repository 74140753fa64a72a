// app/echoServer/controller/auth/authController.go
package auth

import (
	"log/slog"
	"net/http"

	"campuscloset/app/echoServer/respond"
	"campuscloset/app/echoServer/validation"
	"campuscloset/model"
	authsvc "campuscloset/service/auth"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Register a new user
// @Summary      Register user
// @Description  Creates an account with the identity provider. Only campus email domains are accepted; a verification code is emailed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any "bad domain or rejected input"
// @Failure      409  {object}  map[string]any "email already registered"
// @Failure      500  {object}  map[string]any
// @Router       /register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return respond.Error(c, http.StatusBadRequest, "invalid body")
	}

	// the service checks the email domain before anything else, so the
	// domain message wins over generic field errors
	msg, err := ct.Svc.Register(c.Request().Context(), req)
	if err != nil {
		return respond.Fail(c, ct.Log, "register", err)
	}
	return respond.OK(c, echo.Map{"message": msg})
}

// Login
// @Summary      Login
// @Description  Checks credentials with the identity provider and returns a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return respond.Error(c, http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return respond.Error(c, http.StatusBadRequest, validation.Message(err))
	}

	res, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		return respond.Fail(c, ct.Log, "login", err)
	}
	return respond.OK(c, echo.Map{
		"message":  authsvc.MsgLoggedIn,
		"name":     res.Name,
		"token":    res.Token,
		"verified": res.Verified,
	})
}

// Verify
// @Summary      Verify email
// @Description  Confirms a signup with the one-time code sent by email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.VerifyReq  true  "Verify payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any "invalid verification code"
// @Failure      500  {object}  map[string]any
// @Router       /verify [post]
func (ct *Controller) Verify(c echo.Context) error {
	var req model.VerifyReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return respond.Error(c, http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return respond.Error(c, http.StatusBadRequest, validation.Message(err))
	}

	if err := ct.Svc.Verify(c.Request().Context(), req); err != nil {
		return respond.Fail(c, ct.Log, "verify", err)
	}
	return respond.OK(c, echo.Map{"message": authsvc.MsgVerified})
}
