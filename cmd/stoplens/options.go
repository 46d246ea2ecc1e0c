package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"stoplens.dev/internal/app"
	"stoplens.dev/internal/appconf"
	"stoplens.dev/internal/logging"
)

// Options are the flags shared by every command. Flags that were set on the
// command line override the config file.
type Options struct {
	ConfigPath      string
	Env             string
	BaseURL         string
	StopsPath       string
	FleetPath       string
	Timezone        string
	PollInterval    time.Duration
	LastResolveWins bool
	LogLevel        string
	LogFormat       string
}

func NewOptions() *Options {
	defaults := appconf.Default()
	return &Options{
		Env:          defaults.EnvName,
		PollInterval: defaults.Polling.Interval,
		LogLevel:     defaults.Log.Level,
		LogFormat:    "text",
	}
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigPath, "config", "c", o.ConfigPath, "Path to a YAML config file.")
	fs.StringVar(&o.Env, "env", o.Env, "Environment (development|test|production).")
	fs.StringVar(&o.BaseURL, "base-url", o.BaseURL, "Base URL of the transit data service.")
	fs.StringVar(&o.StopsPath, "stops", o.StopsPath, "Stop table, JSON or GTFS zip.")
	fs.StringVar(&o.FleetPath, "fleet", o.FleetPath, "Fleet table YAML. Defaults to the built-in table.")
	fs.StringVar(&o.Timezone, "timezone", o.Timezone, "IANA time zone for arrival clock times.")
	fs.DurationVar(&o.PollInterval, "interval", o.PollInterval, "Polling interval.")
	fs.BoolVar(&o.LastResolveWins, "last-resolve-wins", o.LastResolveWins, "Apply poll responses in arrival order instead of dropping stale ones.")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level (debug|info|warn|error).")
	fs.StringVar(&o.LogFormat, "log-format", o.LogFormat, "Log format (json|text).")
}

// Config loads the config file, applies changed flags and validates the result.
func (o *Options) Config(fs *pflag.FlagSet) (appconf.Config, error) {
	cfg, err := appconf.Load(o.ConfigPath)
	if err != nil {
		return appconf.Config{}, err
	}

	if o.ConfigPath == "" || fs.Changed("env") {
		cfg.EnvName = o.Env
	}
	if o.ConfigPath == "" || fs.Changed("log-level") {
		cfg.Log.Level = o.LogLevel
	}
	if o.ConfigPath == "" || fs.Changed("log-format") {
		cfg.Log.Format = o.LogFormat
	}
	if fs.Changed("base-url") {
		cfg.Transit.BaseURL = o.BaseURL
	}
	if fs.Changed("stops") {
		cfg.Data.StopsPath = o.StopsPath
	}
	if fs.Changed("fleet") {
		cfg.Data.FleetPath = o.FleetPath
	}
	if fs.Changed("timezone") {
		cfg.Polling.Timezone = o.Timezone
	}
	if fs.Changed("interval") {
		cfg.Polling.Interval = o.PollInterval
	}
	if fs.Changed("last-resolve-wins") {
		cfg.Polling.LastResolveWins = o.LastResolveWins
	}

	if err := cfg.Validate(); err != nil {
		return appconf.Config{}, err
	}
	return cfg, nil
}

// Logger builds the process logger from the validated config.
func Logger(cfg appconf.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(os.Stderr, cfg.Log.Format, level), nil
}

// newApplication resolves the config and wires the application.
func (o *Options) newApplication(fs *pflag.FlagSet) (*app.Application, error) {
	cfg, err := o.Config(fs)
	if err != nil {
		return nil, err
	}
	logger, err := Logger(cfg)
	if err != nil {
		return nil, err
	}
	application, err := app.New(cfg, logger, app.Deps{})
	if err != nil {
		return nil, fmt.Errorf("starting stoplens: %w", err)
	}
	return application, nil
}
