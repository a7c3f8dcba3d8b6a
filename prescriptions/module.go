package prescriptions

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	NewConfig,
	NewRateLimiter,
	fx.Annotate(NewClient, fx.As(new(Service))),
)

type Config struct {
	Host                 string        `envconfig:"TIDEPOOL_PRESCRIPTION_CLIENT_ADDRESS" default:"http://prescription:9800"`
	Timeout              time.Duration `envconfig:"TIDEPOOL_PRESCRIPTION_CLIENT_TIMEOUT" default:"30s"`
	SubmissionsPerSecond uint          `envconfig:"TIDEPOOL_PRESCRIPTION_SUBMISSIONS_PER_SECOND_LIMIT" default:"10"`
}

func NewConfig() (Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg)
	return cfg, err
}
