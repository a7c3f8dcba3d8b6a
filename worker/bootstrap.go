package worker

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/prescription-wizard/api"
	"github.com/tidepool-org/prescription-wizard/auth"
	"github.com/tidepool-org/prescription-wizard/devices"
	"github.com/tidepool-org/prescription-wizard/draftstore"
	"github.com/tidepool-org/prescription-wizard/notify"
	"github.com/tidepool-org/prescription-wizard/prescriptions"
	"github.com/tidepool-org/prescription-wizard/wizard"
)

var dependencies = fx.Provide(
	loggerProvider,
	healthCheckServerProvider,
)

var Modules = []fx.Option{
	dependencies,
	auth.Module,
	devices.Module,
	draftstore.Module,
	notify.Module,
	prescriptions.Module,
	wizard.Module,
	api.Module,
}

func New() *fx.App {
	invokes := fx.Invoke(
		startHealthCheckServer,
	)
	return fx.New(append(Modules, invokes)...)
}

type Components struct {
	fx.In

	Server            *echo.Echo
	Sessions          *wizard.Sessions
	HealthCheckServer *http.Server
	Logger            *zap.SugaredLogger
	Lifecycle         fx.Lifecycle
	Shutdowner        fx.Shutdowner
}
