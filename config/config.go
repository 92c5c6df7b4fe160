// Package config loads bridge settings from an optional YAML file and the
// environment. Environment variables take precedence over the file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/sdk/loopback"
)

// FileEnv names the variable holding the path of the YAML settings file.
const FileEnv = "COMMSBRIDGE_CONFIG_FILE"

// Options holds the settings read when the library is loaded.
type Options struct {
	LogLevel   string `env:"COMMSBRIDGE_LOG_LEVEL"   yaml:"log_level"`
	LogFormat  string `env:"COMMSBRIDGE_LOG_FORMAT"  yaml:"log_format"`
	SigningKey string `env:"COMMSBRIDGE_SIGNING_KEY" yaml:"signing_key"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Options {
	return Options{LogLevel: "info", LogFormat: "text"}
}

// Load starts from Defaults, applies the file named by FileEnv when set,
// then the environment.
func Load() (Options, error) {
	o := Defaults()
	if path := os.Getenv(FileEnv); path != "" {
		if err := o.loadFile(path); err != nil {
			return Options{}, err
		}
	}
	if err := env.Parse(&o); err != nil {
		return Options{}, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

func (o *Options) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, o); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ConfigureLogging applies the level and format to the standard logrus logger.
func (o Options) ConfigureLogging() error {
	return o.configure(logrus.StandardLogger())
}

func (o Options) configure(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(o.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	switch strings.ToLower(o.LogFormat) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("log format: unknown format %q", o.LogFormat)
	}
	logger.SetLevel(level)
	return nil
}

// LoopbackOptions returns the loopback SDK options implied by o.
func (o Options) LoopbackOptions() []loopback.Option {
	var opts []loopback.Option
	if o.SigningKey != "" {
		opts = append(opts, loopback.WithSigningKey([]byte(o.SigningKey)))
	}
	return opts
}

// LogrusLevel maps an SDK log level onto logrus. logrus has no "off", so
// LogLevelOff keeps only panics.
func LogrusLevel(level sdk.LogLevel) logrus.Level {
	switch level {
	case sdk.LogLevelOff:
		return logrus.PanicLevel
	case sdk.LogLevelError:
		return logrus.ErrorLevel
	case sdk.LogLevelWarning:
		return logrus.WarnLevel
	case sdk.LogLevelInfo:
		return logrus.InfoLevel
	case sdk.LogLevelDebug:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}
