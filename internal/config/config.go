package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the Home Assistant connection settings. The token may be
// empty at load time; calls fail with a NotConfigured error instead of the
// process refusing to start, so the MCP server can still answer with a
// readable message.
type Config struct {
	URL      string
	Token    string
	Timeout  time.Duration
	LogLevel string
	Debug    bool

	logOnce sync.Once
	logger  *logrus.Logger
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("ha_url", "http://localhost:8123")
	v.SetDefault("ha_token", "")
	v.SetDefault("hass_mcp_timeout", "10s")
	v.SetDefault("hass_mcp_log_level", "info")
	v.SetDefault("hass_mcp_debug", false)
	v.AutomaticEnv()

	timeout := v.GetDuration("hass_mcp_timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Config{
		URL:      strings.TrimSuffix(v.GetString("ha_url"), "/"),
		Token:    v.GetString("ha_token"),
		Timeout:  timeout,
		LogLevel: v.GetString("hass_mcp_log_level"),
		Debug:    v.GetBool("hass_mcp_debug"),
	}, nil
}

// Logger returns the process logger. Output goes to stderr: stdout carries
// the MCP stdio transport and must stay clean.
func (c *Config) Logger() *logrus.Logger {
	c.logOnce.Do(func() {
		log := logrus.New()
		log.SetOutput(os.Stderr)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

		level, err := logrus.ParseLevel(c.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		if c.Debug {
			level = logrus.DebugLevel
		}
		log.SetLevel(level)
		c.logger = log
	})
	return c.logger
}
