// Package config loads the YAML configuration of the throttled daemon.
package config

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vnykmshr/throttle/pkg/common/validation"
	"github.com/vnykmshr/throttle/pkg/throttle"
)

type Throttle struct {
	Rate  float64 `yaml:"rate" validate:"gt=0"`
	Order string  `yaml:"order" validate:"omitempty,oneof=fifo lifo FIFO LIFO"`
	Name  string  `yaml:"name"`
}

type Observability struct {
	LogLevel    string `yaml:"log_level"` // "debug","info","warn","error"
	MetricsAddr string `yaml:"metrics_addr"`
	MetricsPath string `yaml:"metrics_path"` // e.g. "/metrics"
}

type Job struct {
	Name      string `yaml:"name" validate:"required"`
	Schedule  string `yaml:"schedule" validate:"required"` // cron spec or descriptor, e.g. "@every 10s"
	Target    string `yaml:"target" validate:"required,url"`
	Method    string `yaml:"method" validate:"omitempty,oneof=GET HEAD POST PUT DELETE"`
	Calls     int    `yaml:"calls" validate:"gt=0"`
	TimeoutMS int    `yaml:"timeout_ms" validate:"gte=0"`
}

type Root struct {
	Throttle      Throttle      `yaml:"throttle"`
	Observability Observability `yaml:"observability"`
	Jobs          []Job         `yaml:"jobs" validate:"dive"`
}

// Config converts the throttle section into library configuration.
func (t Throttle) Config() (throttle.Config, error) {
	order, err := throttle.ParseOrder(t.Order)
	if err != nil {
		return throttle.Config{}, err
	}
	return throttle.Config{
		Rate:  t.Rate,
		Order: order,
		Name:  t.Name,
	}, nil
}

func (j Job) Timeout() time.Duration {
	if j.TimeoutMS == 0 {
		return 5 * time.Second
	}
	return time.Duration(j.TimeoutMS) * time.Millisecond
}

func (j Job) HTTPMethod() string {
	if j.Method == "" {
		return http.MethodGet
	}
	return j.Method
}

func Load(path string) (*Root, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML document. Unknown keys are rejected.
func Parse(b []byte) (*Root, error) {
	var cfg Root
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Throttle.Name == "" {
		cfg.Throttle.Name = throttle.DefaultName
	}
	if cfg.Observability.LogLevel == "" {
		cfg.Observability.LogLevel = "info"
	}
	if cfg.Observability.MetricsAddr == "" {
		cfg.Observability.MetricsAddr = ":9090"
	}
	if cfg.Observability.MetricsPath == "" {
		cfg.Observability.MetricsPath = "/metrics"
	}

	if err := validation.ValidateStruct("config", cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
