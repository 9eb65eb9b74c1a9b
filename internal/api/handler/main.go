package handler

import (
	"net/http"

	"talktoearn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "💰")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)

		a := groupAuth{cfg.Container}
		routesAPIv1.POST("/auth/login", a.Login)

		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.
		routesAPIv1.GET("", Hello)

		b := groupBounty{cfg.Container}
		routesAPIv1.GET("/bounties", b.List)
		routesAPIv1.POST("/bounties", b.Create)
		routesAPIv1.GET("/bounties/featured", b.Featured)
		routesAPIv1.GET("/bounty/:id", b.Show)
		routesAPIv1.DELETE("/bounty/:id", b.Delete)
		routesAPIv1.POST("/bounty/:id/apply", b.Apply)
		routesAPIv1.POST("/bounty/:id/withdraw", b.Withdraw)
		routesAPIv1.POST("/bounty/:id/cancel", b.Cancel)
		routesAPIv1.POST("/bounty/:id/fulfill", b.Fulfill)
		routesAPIv1.GET("/bounty/:id/qr", b.QR)
		routesAPIv1.POST("/scan", b.Scan)

		routesAPIv1User := routesAPIv1.Group("/user")
		{
			u := groupUser{cfg.Container}
			routesAPIv1User.GET("/me", u.Me)
			routesAPIv1User.GET("/me/qr", u.QR)
			routesAPIv1User.GET("/me/bounties", u.Bounties)
			routesAPIv1User.GET("/me/archive", u.Archive)
			routesAPIv1User.POST("/connect/ton", u.ConnectTonWallet)
			routesAPIv1User.POST("/connect/evm", u.ConnectEVMWallet)
			routesAPIv1User.POST("/connect/telegram", u.LinkTelegram)
		}
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
