package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edp1096/acfit/pkg/device"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for acfit
type Config struct {
	Log      LogConfig
	Analysis AnalysisConfig
	Output   OutputConfig
	Plot     PlotConfig
	Storage  StorageConfig
	Server   ServerConfig
	OpAmps   map[string]OpAmpConfig
}

type LogConfig struct {
	Level  string
	Format string // console or json
}

type AnalysisConfig struct {
	InputType string
}

type OutputConfig struct {
	Figure     string
	NativePlot string
}

// PlotConfig sizes are in inches.
type PlotConfig struct {
	Width  float64
	Height float64
}

// StorageConfig selects where rendered figures are uploaded.
type StorageConfig struct {
	Backend         string // none, local, s3, minio
	LocalDir        string
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// OpAmpConfig adds or overrides a library op-amp model.
type OpAmpConfig struct {
	A0    float64   `mapstructure:"a0"`
	GBW   float64   `mapstructure:"gbw"`
	Delay float64   `mapstructure:"delay"`
	Poles []float64 `mapstructure:"poles"`
	Zeros []float64 `mapstructure:"zeros"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"log-level":   "log.level",
	"log-format":  "log.format",
	"input-type":  "analysis.input_type",
	"out":         "output.figure",
	"native-plot": "output.native_plot",
	"storage":     "storage.backend",
	"port":        "server.port",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("analysis.input_type", "voltage")
	v.SetDefault("output.figure", "fig1.png")
	v.SetDefault("output.native_plot", "response.html")
	v.SetDefault("plot.width", 10.0)
	v.SetDefault("plot.height", 8.0)
	v.SetDefault("storage.backend", "none")
	v.SetDefault("storage.local_dir", "artifacts")
	v.SetDefault("storage.bucket", "acfit-figures")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", "http://localhost:5173,http://localhost:3000")
}

// Load reads configuration from defaults, an optional config file,
// ACFIT_* environment variables and flags, in increasing precedence.
// An empty path looks for acfit.{yaml,json,toml} in the working directory.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("acfit")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("ACFIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Analysis: AnalysisConfig{
			InputType: v.GetString("analysis.input_type"),
		},
		Output: OutputConfig{
			Figure:     v.GetString("output.figure"),
			NativePlot: v.GetString("output.native_plot"),
		},
		Plot: PlotConfig{
			Width:  v.GetFloat64("plot.width"),
			Height: v.GetFloat64("plot.height"),
		},
		Storage: StorageConfig{
			Backend:         strings.ToLower(v.GetString("storage.backend")),
			LocalDir:        v.GetString("storage.local_dir"),
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			Endpoint:        v.GetString("storage.endpoint"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UseSSL:          v.GetBool("storage.use_ssl"),
		},
		Server: ServerConfig{
			Port:           v.GetString("server.port"),
			AllowedOrigins: splitList(v.GetStringSlice("server.allowed_origins")),
		},
	}

	if err := v.UnmarshalKey("opamps", &cfg.OpAmps); err != nil {
		return nil, fmt.Errorf("decoding opamps: %w", err)
	}

	return cfg, nil
}

// splitList flattens comma separated entries, as they arrive from env vars.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// OpAmpLibrary returns the built-in models with the configured ones added.
func (c *Config) OpAmpLibrary() (device.OpAmpLibrary, error) {
	lib := device.DefaultOpAmpLibrary()
	for name, m := range c.OpAmps {
		err := lib.Add(device.OpAmpModel{
			Name:  name,
			A0:    m.A0,
			GBW:   m.GBW,
			Delay: m.Delay,
			Poles: m.Poles,
			Zeros: m.Zeros,
		})
		if err != nil {
			return nil, err
		}
	}
	return lib, nil
}
