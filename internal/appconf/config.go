// Package appconf loads the stoplens configuration from YAML and validates it.
package appconf

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	EnvName string      `yaml:"env" validate:"oneof=development test production"`
	Env     Environment `yaml:"-"`

	Transit TransitConfig `yaml:"transit"`
	Data    DataConfig    `yaml:"data"`
	Polling PollingConfig `yaml:"polling"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// TransitConfig points at the transit data service.
type TransitConfig struct {
	BaseURL         string        `yaml:"baseURL" validate:"required,url"`
	Timeout         time.Duration `yaml:"timeout" validate:"gt=0"`
	UserAgent       string        `yaml:"userAgent"`
	InfoConcurrency int           `yaml:"infoConcurrency" validate:"gte=1,lte=32"`
}

// DataConfig locates the static tables. An empty fleet path uses the
// embedded fleet table; an empty stops path leaves stops unresolved.
type DataConfig struct {
	StopsPath string `yaml:"stopsPath"`
	FleetPath string `yaml:"fleetPath"`
}

type PollingConfig struct {
	Interval        time.Duration `yaml:"interval" validate:"gte=1s"`
	FetchTimeout    time.Duration `yaml:"fetchTimeout" validate:"gt=0"`
	LastResolveWins bool          `yaml:"lastResolveWins"`
	SessionIdle     time.Duration `yaml:"sessionIdle" validate:"gte=1s"`
	Timezone        string        `yaml:"timezone" validate:"omitempty,timezone"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	RateLimit       float64       `yaml:"rateLimit" validate:"gte=0"`
	RateBurst       int           `yaml:"rateBurst" validate:"gte=0"`
	TrustProxy      bool          `yaml:"trustProxy"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		EnvName: Development.String(),
		Env:     Development,
		Transit: TransitConfig{
			Timeout:         10 * time.Second,
			UserAgent:       "stoplens/1.0",
			InfoConcurrency: 4,
		},
		Polling: PollingConfig{
			Interval:     30 * time.Second,
			FetchTimeout: 15 * time.Second,
			SessionIdle:  5 * time.Minute,
		},
		Server: ServerConfig{
			Addr:            ":4000",
			RateLimit:       10,
			RateBurst:       20,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// The result is not validated, so flags can still fill required fields.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate normalises derived fields and checks every section.
func (c *Config) Validate() error {
	c.EnvName = strings.ToLower(strings.TrimSpace(c.EnvName))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))

	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	c.Env = EnvFlagToEnvironment(c.EnvName)
	return nil
}

// Location returns the time zone arrival clock times are shown in.
func (c Config) Location() (*time.Location, error) {
	if c.Polling.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Polling.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}
	return loc, nil
}
