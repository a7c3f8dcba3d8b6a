package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/prescription-wizard/auth"
	"github.com/tidepool-org/prescription-wizard/devices"
	"github.com/tidepool-org/prescription-wizard/prescriptions"
	"github.com/tidepool-org/prescription-wizard/wizard"
)

var Module = fx.Options(
	fx.Provide(NewConfig, NewHandlers, NewServer),
	fx.Invoke(StartServer),
)

type Config struct {
	Address string `envconfig:"TIDEPOOL_PRESCRIPTION_WIZARD_ADDRESS" default:":9810"`
}

func NewConfig() (Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg)
	return cfg, err
}

type Params struct {
	fx.In

	Config   Config
	Handlers *Handlers
	Parser   *auth.Parser
	Logger   *zap.SugaredLogger
}

func NewServer(p Params) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.Addr = p.Config.Address
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			p.Logger.Debugw("handled request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	v1 := e.Group("/v1", auth.Middleware(p.Parser))
	p.Handlers.Register(v1)
	return e
}

type ServerComponents struct {
	fx.In

	Server     *echo.Echo
	Config     Config
	Logger     *zap.SugaredLogger
	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
}

func StartServer(components ServerComponents) {
	components.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				components.Logger.Infow("starting api server", "address", components.Config.Address)
				if err := components.Server.Start(components.Config.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
					components.Logger.Errorw("api server stopped", zap.Error(err))
					_ = components.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return components.Server.Shutdown(ctx)
		},
	})
}

type HandlersParams struct {
	fx.In

	Sessions *wizard.Sessions
	Devices  devices.Source
	Service  prescriptions.Service
	Logger   *zap.SugaredLogger
}
