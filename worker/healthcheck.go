package worker

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func healthCheckServerProvider() *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:    ":8080",
		Handler: mux,
	}
}

func startHealthCheckServer(components Components) {
	components.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				err := components.HealthCheckServer.ListenAndServe()
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					components.Logger.Errorw("health check server stopped", zap.Error(err))
					_ = components.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return components.HealthCheckServer.Shutdown(ctx)
		},
	})
}
