package echoServer

import (
	"net/http"

	"campuscloset/app/echoServer/controller/auth"
	"campuscloset/app/echoServer/controller/listing"
	"campuscloset/app/echoServer/controller/rental"
	"campuscloset/app/echoServer/jwtx"
	"campuscloset/app/echoServer/respond"
	jwtutil "campuscloset/util/jwt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type C struct {
	Auth      *auth.Controller
	Listing   *listing.Controller
	Rental    *rental.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	e.POST("/register", c.Auth.Register)
	e.POST("/login", c.Auth.Login)
	e.POST("/verify", c.Auth.Verify)

	e.GET("/search", c.Listing.Search)
	e.GET("/listings/:id", c.Listing.Detail)

	// Session required
	authed := SessionAuth(c.JWTSecret)

	// multipart overhead on top of the image cap
	e.POST("/listings", c.Listing.Create, middleware.BodyLimit("11M"), authed)

	api := e.Group("/api", authed)
	api.POST("/process-payment", c.Rental.ProcessPayment)
	api.GET("/rentals", c.Rental.MyRentals)
}

// SessionAuth requires a bearer token issued by login.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  jwtx.ContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return jwtutil.Parse(auth, secret)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			c.Logger().Warnf("[AUTH] rejected token req_id=%s ip=%s err=%v", reqID, c.RealIP(), err)
			return respond.Error(c, http.StatusUnauthorized, "User authentication required")
		},
	})
}
