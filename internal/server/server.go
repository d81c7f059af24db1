package server

import (
	"context"
	"net"
	"net/http"

	"github.com/fakhrymubarak/chennai-weather/internal/config"
	"github.com/fakhrymubarak/chennai-weather/internal/handler"
	"github.com/fakhrymubarak/chennai-weather/internal/middleware"
	"github.com/fakhrymubarak/chennai-weather/internal/redis"
	"github.com/fakhrymubarak/chennai-weather/internal/service"
)

// New wires handlers, the refresh limiter and the optional redis publisher
// around svc. cleanup detaches the publisher.
func New(ctx context.Context, svc *service.DashboardService) (*http.Server, func()) {
	logger := config.GetLogger()
	h := handler.NewDashboardHandler(svc)
	cleanup := func() {}

	if config.GetRedisEnabled() {
		if err := redis.Ping(ctx); err != nil {
			logger.Warnw("Redis not reachable, refresh events will not be delivered yet", "addr", config.GetRedisAddr(), "error", err)
		}
		publisher := redis.NewPublisher()
		cleanup = svc.Subscribe(publisher.Listen(ctx))
		h.HealthChecks["redis"] = redis.Ping
		logger.Infow("Publishing refresh events", "channel", publisher.Channel())
	}

	limiter := middleware.NewRateLimiter()
	limiter.StartCleanup(ctx)

	srv := &http.Server{
		Addr:              ":" + config.GetServerPort(),
		Handler:           handler.NewRouter(h, limiter),
		ReadHeaderTimeout: config.GetServerTimeout("read_header_timeout"),
		ReadTimeout:       config.GetServerTimeout("read_timeout"),
		WriteTimeout:      config.GetServerTimeout("write_timeout"),
		IdleTimeout:       config.GetServerTimeout("idle_timeout"),
		// request contexts end with ctx so event streams close on shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	return srv, cleanup
}
