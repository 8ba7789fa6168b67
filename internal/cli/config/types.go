// Package config provides configuration management for the rex CLI.
//
// Configuration is layered with koanf: defaults, then rex.yaml, then REX_
// environment variables (a .env file in the project root fills unset ones),
// then explicitly set command-line flags.
package config

import (
	"time"

	"github.com/anandkaranubc/rex-data-wrangling/pkg/core"
	"github.com/anandkaranubc/rex-data-wrangling/pkg/sink"
)

// Config holds all CLI configuration options.
type Config struct {
	Mentors      string         `koanf:"mentors"`
	Mentees      string         `koanf:"mentees"`
	Matches      string         `koanf:"matches"`
	Delimiter    string         `koanf:"delimiter" validate:"required"`
	OutputDir    string         `koanf:"output_dir"`
	WideName     string         `koanf:"wide_name" validate:"required"`
	LongName     string         `koanf:"long_name" validate:"required,nefield=WideName"`
	Sink         sink.Config    `koanf:"sink"`
	Columns      core.ColumnMap `koanf:"columns"`
	Strict       bool           `koanf:"strict"`
	Verbose      bool           `koanf:"verbose"`
	LogLevel     string         `koanf:"log_level" validate:"oneof=debug info warn error"`
	OutputFormat string         `koanf:"output" validate:"oneof=auto text markdown json"`
	Serve        ServeConfig    `koanf:"serve"`
	Watch        WatchConfig    `koanf:"watch"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// ServeConfig holds configuration for the HTTP server.
type ServeConfig struct {
	Addr           string        `koanf:"addr" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"gte=0"`
	MaxUploadBytes int64         `koanf:"max_upload_bytes" validate:"gt=0"`
}

// WatchConfig holds configuration for process --watch.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce" validate:"gte=0"`
}

// Default configuration values.
const (
	DefaultDelimiter      = ","
	DefaultWideName       = "output1"
	DefaultLongName       = "output2"
	DefaultSinkType       = "csv"
	DefaultLogLevel       = "warn"
	DefaultOutput         = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultServeAddr      = ":8080"
	DefaultReadTimeout    = 30 * time.Second
	DefaultMaxUploadBytes = 32 << 20
	DefaultDebounce       = 200 * time.Millisecond
)

// Config file names searched for, in order.
var configFileNames = []string{"rex.yaml", "rex.yml"}

// Default returns a Config populated with default values and no inputs.
func Default() *Config {
	return &Config{
		Delimiter:    DefaultDelimiter,
		WideName:     DefaultWideName,
		LongName:     DefaultLongName,
		Sink:         sink.Config{Type: DefaultSinkType},
		Columns:      core.DefaultColumns(),
		LogLevel:     DefaultLogLevel,
		OutputFormat: DefaultOutput,
		Serve: ServeConfig{
			Addr:           DefaultServeAddr,
			ReadTimeout:    DefaultReadTimeout,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
		Watch: WatchConfig{Debounce: DefaultDebounce},
	}
}

// SinkConfig returns the sink configuration with the output directory filled in.
func (c *Config) SinkConfig() sink.Config {
	sc := c.Sink
	sc.Dir = c.OutputDir
	return sc
}
