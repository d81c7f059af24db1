package integrationtest

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/fakhrymubarak/chennai-weather/internal/config"
	"github.com/fakhrymubarak/chennai-weather/internal/model"
	"github.com/fakhrymubarak/chennai-weather/internal/redis"
	"github.com/fakhrymubarak/chennai-weather/internal/repository"
)

type DashboardTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	ctx       context.Context
	cancel    context.CancelFunc
}

type dashboardBody struct {
	Data struct {
		Current     *model.CurrentConditions `json:"current"`
		Hourly      []model.HourlyPoint      `json:"hourly"`
		Daily       []model.DailyPoint       `json:"daily"`
		AirQuality  *model.AirQuality        `json:"air_quality"`
		Alerts      []model.Alert            `json:"alerts"`
		Monsoon     *model.MonsoonStatus     `json:"monsoon"`
		LastUpdated *time.Time               `json:"last_updated"`
		Loading     bool                     `json:"loading"`
		Failures    map[string]string        `json:"failures"`
		Gradient    string                   `json:"gradient"`
	} `json:"data"`
	Error   *string `json:"error"`
	Message string  `json:"message"`
}

func (suite *DashboardTestSuite) SetupSuite() {
	suite.miniRedis = createMockRedisServer()
	config.ReloadConfigForTest()
	viper.Set("redis.enabled", true)
	viper.Set("redis.addr", suite.miniRedis.Addr())
	// the suite plays a reverse proxy so each test can pick its client address
	viper.Set("rate_limiter.trusted_proxies", []string{"127.0.0.1", "::1"})
	redis.ResetClientForTest()
}

func (suite *DashboardTestSuite) TearDownSuite() {
	redis.ResetClientForTest()
	viper.Reset()
	config.ReloadConfigForTest()
	if suite.miniRedis != nil {
		suite.miniRedis.Close()
	}
}

func (suite *DashboardTestSuite) SetupTest() {
	suite.ctx, suite.cancel = context.WithCancel(context.Background())
}

func (suite *DashboardTestSuite) TearDownTest() {
	suite.cancel()
}

func (suite *DashboardTestSuite) getDashboard(srv *testServer) dashboardBody {
	resp, err := http.Get(srv.URL + "/api/dashboard")
	suite.Require().NoError(err)
	defer resp.Body.Close()
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	var body dashboardBody
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func (suite *DashboardTestSuite) postRefresh(srv *testServer, remoteIP string) (int, dashboardBody) {
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/refresh", nil)
	suite.Require().NoError(err)
	req.Header.Set("X-Forwarded-For", remoteIP)
	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var body dashboardBody
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func (suite *DashboardTestSuite) TestRefreshPopulatesDashboard() {
	srv := setupIntegrationTestServer(suite.ctx)
	defer srv.Close()

	before := suite.getDashboard(srv)
	assert.Nil(suite.T(), before.Data.Current)
	assert.Nil(suite.T(), before.Data.LastUpdated)
	assert.Equal(suite.T(), "default", before.Data.Gradient)

	status, body := suite.postRefresh(srv, "203.0.113.10")
	suite.Require().Equal(http.StatusOK, status)
	assert.Equal(suite.T(), "Success", body.Message)
	suite.Require().NotNil(body.Data.Current)
	assert.Equal(suite.T(), "Chennai, Tamil Nadu", body.Data.Current.Location)
	assert.Len(suite.T(), body.Data.Hourly, repository.HourlyPoints)
	assert.Len(suite.T(), body.Data.Daily, repository.DailyPoints)
	assert.NotNil(suite.T(), body.Data.AirQuality)
	assert.Len(suite.T(), body.Data.Alerts, 2)
	assert.NotNil(suite.T(), body.Data.Monsoon)
	assert.NotNil(suite.T(), body.Data.LastUpdated)
	assert.False(suite.T(), body.Data.Loading)
	assert.Empty(suite.T(), body.Data.Failures)

	after := suite.getDashboard(srv)
	assert.Equal(suite.T(), body.Data.LastUpdated.Unix(), after.Data.LastUpdated.Unix())
}

func (suite *DashboardTestSuite) TestFailedRefreshKeepsPreviousData() {
	srv := setupIntegrationTestServer(suite.ctx)
	defer srv.Close()

	status, first := suite.postRefresh(srv, "203.0.113.20")
	suite.Require().Equal(http.StatusOK, status)

	failing := setupIntegrationTestServer(suite.ctx, repository.WithFailureRate(1))
	defer failing.Close()
	status, body := suite.postRefresh(failing, "203.0.113.21")
	assert.Equal(suite.T(), http.StatusBadGateway, status)
	suite.Require().NotNil(body.Error)
	assert.Contains(suite.T(), *body.Error, "Refresh failed")
	assert.Nil(suite.T(), body.Data.Current, "nothing was ever loaded on this server")
	assert.Nil(suite.T(), body.Data.LastUpdated)
	assert.Len(suite.T(), body.Data.Failures, len(model.AllSlices))

	// the healthy server still has its first snapshot
	again := suite.getDashboard(srv)
	assert.Equal(suite.T(), first.Data.LastUpdated.Unix(), again.Data.LastUpdated.Unix())
}

func (suite *DashboardTestSuite) TestRefreshIsRateLimited() {
	srv := setupIntegrationTestServer(suite.ctx)
	defer srv.Close()

	_, burst := config.GetRefreshRateLimiterConfig()
	for i := 0; i < burst; i++ {
		status, _ := suite.postRefresh(srv, "203.0.113.30")
		suite.Require().Equal(http.StatusOK, status, "request %d", i+1)
	}
	status, body := suite.postRefresh(srv, "203.0.113.30")
	assert.Equal(suite.T(), http.StatusTooManyRequests, status)
	suite.Require().NotNil(body.Error)
	assert.Contains(suite.T(), *body.Error, "Rate limit exceeded")

	status, _ = suite.postRefresh(srv, "203.0.113.31")
	assert.Equal(suite.T(), http.StatusOK, status, "other clients are unaffected")
}

func (suite *DashboardTestSuite) TestRefreshEventsArePublishedToRedis() {
	srv := setupIntegrationTestServer(suite.ctx)
	defer srv.Close()

	sub := redis.GetClient().Subscribe(suite.ctx, config.GetRedisChannel())
	defer sub.Close()
	_, err := sub.Receive(suite.ctx)
	suite.Require().NoError(err)

	status, _ := suite.postRefresh(srv, "203.0.113.40")
	suite.Require().Equal(http.StatusOK, status)

	var events []redis.RefreshEvent
	for len(events) < 2 {
		ctx, cancel := context.WithTimeout(suite.ctx, 2*time.Second)
		msg, err := sub.ReceiveMessage(ctx)
		cancel()
		suite.Require().NoError(err)
		var event redis.RefreshEvent
		suite.Require().NoError(json.Unmarshal([]byte(msg.Payload), &event))
		events = append(events, event)
	}
	assert.True(suite.T(), events[0].Loading)
	assert.False(suite.T(), events[1].Loading)
	assert.NotNil(suite.T(), events[1].LastUpdated)
	assert.NotNil(suite.T(), events[1].Temperature)
	assert.Equal(suite.T(), 2, events[1].Alerts)
}

func (suite *DashboardTestSuite) TestIndexPage() {
	srv := setupIntegrationTestServer(suite.ctx)
	defer srv.Close()
	suite.Require().NoError(srv.service.Refresh(suite.ctx))

	tests := []struct {
		name     string
		path     string
		accept   string
		contains []string
	}{
		{"english", "/", "", []string{`lang="en"`, "Chennai Weather", "24-Hour Forecast", "Chennai Monsoon Tracker"}},
		{"tamil from header", "/", "ta-IN", []string{`lang="ta"`, "சென்னை வானிலை"}},
		{"dark mode", "/?dark=1&unit=fahrenheit", "", []string{"gradient-dark dark", "°F"}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req, err := http.NewRequest(http.MethodGet, srv.URL+tt.path, nil)
			suite.Require().NoError(err)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			resp, err := http.DefaultClient.Do(req)
			suite.Require().NoError(err)
			defer resp.Body.Close()
			suite.Require().Equal(http.StatusOK, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			suite.Require().NoError(err)
			for _, want := range tt.contains {
				assert.Contains(suite.T(), string(body), want)
			}
		})
	}
}

func (suite *DashboardTestSuite) TestEventStream() {
	srv := setupIntegrationTestServer(suite.ctx)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(suite.ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	suite.Require().NoError(err)
	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	events := make(chan string, 8)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "data: ") {
				events <- strings.TrimPrefix(line, "data: ")
			}
		}
		close(events)
	}()

	initial := <-events
	assert.Contains(suite.T(), initial, `"loading":false`)

	go func() { _ = srv.service.Refresh(context.Background()) }()

	var sawLoaded bool
	for data := range events {
		if strings.Contains(data, `"last_updated"`) && strings.Contains(data, `"loading":false`) {
			sawLoaded = true
			break
		}
	}
	assert.True(suite.T(), sawLoaded, "expected an event after the refresh completed")
}

func (suite *DashboardTestSuite) TestHealth() {
	srv := setupIntegrationTestServer(suite.ctx)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(suite.T(), "ok", body.Status)
	assert.Equal(suite.T(), "ok", body.Checks["redis"])
}

func TestDashboardTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration tests skipped in short mode")
	}
	suite.Run(t, new(DashboardTestSuite))
}
