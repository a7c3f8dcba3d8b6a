package devices

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(NewConfig, NewSource)

type Config struct {
	Host          string        `envconfig:"TIDEPOOL_DEVICES_CLIENT_ADDRESS" default:"http://prescription:9800"`
	CatalogueFile string        `envconfig:"TIDEPOOL_DEVICES_CATALOGUE_FILE"`
	Timeout       time.Duration `envconfig:"TIDEPOOL_DEVICES_CLIENT_TIMEOUT" default:"30s"`
}

func NewConfig() (Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg)
	return cfg, err
}

func NewSource(config Config, logger *zap.SugaredLogger) (Source, error) {
	if config.CatalogueFile != "" {
		logger.Infow("using static device catalogue", "file", config.CatalogueFile)
		return LoadCatalogueFile(config.CatalogueFile)
	}
	return NewClient(config, logger), nil
}
