package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
		}
		_ = godotenv.Load(filepath.Join(root, ".env"))

		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()
		setDefaults()

		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Warnw("Error reading config file, using defaults", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Warnw("Error reading test config file", "error", err)
			}
		}
	})
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("refresh.interval", "10m")
	viper.SetDefault("provider.timeout", "30s")
	viper.SetDefault("provider.latency_scale", 1.0)
	viper.SetDefault("dashboard.unit", "celsius")
	viper.SetDefault("dashboard.language", "en")
	viper.SetDefault("dashboard.theme", "auto")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.channel", "dashboard:refresh")
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// getDuration reads key as a duration, falling back to def when unset or invalid.
func getDuration(key string, def time.Duration) time.Duration {
	initConfig()
	durStr := viper.GetString(key)
	if durStr == "" {
		return def
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		GetLogger().Warnw("Invalid duration in config", "key", key, "value", durStr)
		return def
	}
	return dur
}

func GetServerPort() string {
	initConfig()
	return viper.GetString("server.port")
}

// GetServerTimeout returns one of the http.Server timeouts (read_header_timeout,
// read_timeout, write_timeout, idle_timeout). Defaults to 15s.
func GetServerTimeout(key string) time.Duration {
	return getDuration("server."+key, 15*time.Second)
}

// GetRefreshInterval returns how often the dashboard reloads all six slices.
func GetRefreshInterval() time.Duration {
	return getDuration("refresh.interval", 10*time.Minute)
}

// GetProviderTimeout bounds a whole refresh cycle. Zero disables the bound.
func GetProviderTimeout() time.Duration {
	return getDuration("provider.timeout", 30*time.Second)
}

// GetProviderLatencyScale multiplies the mock provider's artificial latency.
func GetProviderLatencyScale() float64 {
	initConfig()
	scale := viper.GetFloat64("provider.latency_scale")
	if scale < 0 {
		return 0
	}
	return scale
}

// GetProviderFailureRate is the probability that a mock provider call fails.
func GetProviderFailureRate() float64 {
	initConfig()
	p := viper.GetFloat64("provider.failure_rate")
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func GetDefaultUnit() string {
	initConfig()
	return viper.GetString("dashboard.unit")
}

func GetDefaultLanguage() string {
	initConfig()
	return viper.GetString("dashboard.language")
}

func GetDefaultTheme() string {
	initConfig()
	return viper.GetString("dashboard.theme")
}

func GetRedisEnabled() bool {
	initConfig()
	return viper.GetBool("redis.enabled")
}

func GetRedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

func GetRedisChannel() string {
	initConfig()
	return viper.GetString("redis.channel")
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	return getDuration("rate_limiter.cleanup_timeout", 3*time.Minute)
}

// GetTrustedProxies returns the peer addresses whose X-Forwarded-For header
// is honored. Empty by default, so clients are keyed by their own address.
func GetTrustedProxies() []string {
	initConfig()
	var out []string
	for _, entry := range viper.GetStringSlice("rate_limiter.trusted_proxies") {
		for _, ip := range strings.Split(entry, ",") {
			if ip = strings.TrimSpace(ip); ip != "" {
				out = append(out, ip)
			}
		}
	}
	return out
}

// GetRefreshRateLimiterConfig returns the per-client rate and burst for manual refreshes.
func GetRefreshRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.refresh.rate")
	if rate == 0 {
		rate = 0.2
	}
	burst = viper.GetInt("rate_limiter.refresh.burst")
	if burst == 0 {
		burst = 3
	}
	return
}
