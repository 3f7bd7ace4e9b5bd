package srv

import (
	"context"
	"fmt"

	"github.com/sandevgo/parley/pkg/log"
)

// Service is a long-running part of the process: a transport or a
// resource released on exit.
type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Named services report a short name in lifecycle logs.
type Named interface {
	Name() string
}

// Name returns the service's own name, or its type when it has none.
func Name(s Service) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}

// StartServices runs every service in its own goroutine. A start failure
// is fatal.
func StartServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			name := Name(service)
			logger.Debug().Str("service", name).Msg("starting")
			if err := service.Start(ctx); err != nil {
				logger.Fatal().Err(err).Str("service", name).Msg("service failed to start")
			}
		}(service)
	}
}

// ShutdownServices waits for ctx to end, then stops services in order.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()
	StopServices(ctx, services)
}

// StopServices shuts every service down in order, logging failures.
func StopServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		if err := service.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Str("service", Name(service)).Msg("service failed to shut down")
		}
	}
}
