// Package config loads settings from defaults, an optional config file and
// DESKTOP_INVOKE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys.
const (
	LogLevel        = "log.level"
	OutputFormat    = "output.format"
	ResolveCacheTTL = "resolve.cache_ttl"
	ServerTransport = "server.transport"
	ServerPort      = "server.port"
	ServerPath      = "server.path"
	RunTimeout      = "run.timeout"
)

// Transports accepted by the serve command.
const (
	TransportStdio     = "stdio"
	TransportHTTP      = "streamable-http"
	TransportWebsocket = "websocket"
)

const envPrefix = "DESKTOP_INVOKE"

// Config is the resolved configuration.
type Config struct {
	LogLevel     string
	OutputFormat string
	CacheTTL     time.Duration
	Transport    string
	Port         int
	Path         string
	RunTimeout   time.Duration
}

// New returns a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(LogLevel, "info")
	v.SetDefault(OutputFormat, "yaml")
	v.SetDefault(ResolveCacheTTL, 2*time.Second)
	v.SetDefault(ServerTransport, TransportStdio)
	v.SetDefault(ServerPort, 8765)
	v.SetDefault(ServerPath, "/invoke")
	v.SetDefault(RunTimeout, 30*time.Second)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range []string{".", "$HOME/.desktop-invoke"} {
		v.AddConfigPath(os.ExpandEnv(path))
	}
	return v
}

// Load reads the config file, file if set, or the first config.yaml on the
// search path. A missing default file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return Decode(v)
}

// Decode validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	c := &Config{
		LogLevel:     v.GetString(LogLevel),
		OutputFormat: v.GetString(OutputFormat),
		CacheTTL:     v.GetDuration(ResolveCacheTTL),
		Transport:    v.GetString(ServerTransport),
		Port:         v.GetInt(ServerPort),
		Path:         v.GetString(ServerPath),
		RunTimeout:   v.GetDuration(RunTimeout),
	}
	switch c.OutputFormat {
	case "yaml", "json":
	default:
		return nil, fmt.Errorf("%s: unsupported format %q (use yaml or json)", OutputFormat, c.OutputFormat)
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP, TransportWebsocket:
	default:
		return nil, fmt.Errorf("%s: unsupported transport %q (use %s, %s, or %s)",
			ServerTransport, c.Transport, TransportStdio, TransportHTTP, TransportWebsocket)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return nil, fmt.Errorf("%s: port %d out of range", ServerPort, c.Port)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return nil, fmt.Errorf("%s: path %q must start with /", ServerPath, c.Path)
	}
	if c.CacheTTL < 0 || c.RunTimeout < 0 {
		return nil, fmt.Errorf("durations must not be negative")
	}
	return c, nil
}
