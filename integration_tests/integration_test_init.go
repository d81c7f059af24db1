package integrationtest

import (
	"context"
	"net/http/httptest"

	"github.com/alicebob/miniredis/v2"

	"github.com/fakhrymubarak/chennai-weather/internal/repository"
	"github.com/fakhrymubarak/chennai-weather/internal/server"
	"github.com/fakhrymubarak/chennai-weather/internal/service"
)

func createMockRedisServer() *miniredis.Miniredis {
	mr := miniredis.NewMiniRedis()
	if err := mr.Start(); err != nil {
		panic(err)
	}
	return mr
}

// testServer is the full dashboard stack behind an httptest server.
type testServer struct {
	*httptest.Server
	service *service.DashboardService
	cleanup func()
}

func (s *testServer) Close() {
	s.cleanup()
	s.Server.Close()
}

// setupIntegrationTestServer builds the dashboard through server.New, the
// same wiring main uses, around a seeded provider.
func setupIntegrationTestServer(ctx context.Context, repoOpts ...repository.Option) *testServer {
	repo := repository.NewWeatherRepository(append([]repository.Option{repository.WithSeed(7)}, repoOpts...)...)
	svc := service.NewDashboardService(repo)

	srv, cleanup := server.New(ctx, svc)
	ts := httptest.NewUnstartedServer(srv.Handler)
	ts.Config = srv
	ts.Start()

	return &testServer{
		Server:  ts,
		service: svc,
		cleanup: cleanup,
	}
}
