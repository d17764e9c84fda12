/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package config loads the operation-result configuration and the demo server
// settings from environment variables.
//
// Callers that want .env support load it first (godotenv.Load) and then call
// Load; variables already present in the environment win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"dirpx.dev/opresult"
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/status"
	"dirpx.dev/opresult/validation"
	"google.golang.org/grpc/codes"
)

// Environment variable names.
const (
	EnvAutoValidationResponse = "OPRESULT_AUTO_VALIDATION_RESPONSE"
	EnvErrorFormat            = "OPRESULT_ERROR_FORMAT"
	EnvValidationTitle        = "OPRESULT_VALIDATION_TITLE"
	EnvStatusCodes            = "OPRESULT_STATUS_CODES"
	EnvGRPCCodes              = "OPRESULT_GRPC_CODES"
)

// Rule maps a reason, or a reason prefix containing "*", to a status value.
type Rule[T any] struct {
	Reason string
	Value  T
}

// Prefix reports whether the rule is a prefix rule.
func (r Rule[T]) Prefix() bool { return strings.Contains(r.Reason, "*") }

// Config is the environment-driven configuration.
type Config struct {
	Port        string // PORT
	LogLevel    string // LOG_LEVEL: debug|info|warn|error
	LogPretty   bool   // LOG_PRETTY: console output instead of JSON
	GinMode     string // GIN_MODE: debug|release|test
	ServiceName string // OTEL_SERVICE_NAME

	AutoValidationResponse bool              // OPRESULT_AUTO_VALIDATION_RESPONSE, default true
	ErrorFormat            validation.Format // OPRESULT_ERROR_FORMAT: grouped|flat
	ValidationTitle        string            // OPRESULT_VALIDATION_TITLE

	StatusCodes []Rule[int]        // OPRESULT_STATUS_CODES: "reason=code,..."
	GRPCCodes   []Rule[codes.Code] // OPRESULT_GRPC_CODES: "reason=NOT_FOUND,..." or numeric codes
}

// MustLoad is Load that panics on error.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the configuration from the environment. Unset variables take
// their defaults; malformed ones are reported as errors.
func Load() (Config, error) {
	cfg := Config{
		Port:        getenv("PORT", "8080"),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:   getbool("LOG_PRETTY", false),
		GinMode:     strings.ToLower(getenv("GIN_MODE", "release")),
		ServiceName: getenv("OTEL_SERVICE_NAME", "opresult-demo"),

		AutoValidationResponse: getbool(EnvAutoValidationResponse, true),
		ValidationTitle:        getenv(EnvValidationTitle, ""),
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}

	if v := getenv(EnvErrorFormat, ""); v != "" {
		f, err := validation.ParseFormat(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvErrorFormat, err)
		}
		cfg.ErrorFormat = f
	}

	var err error
	if cfg.StatusCodes, err = parseRules(getenv(EnvStatusCodes, ""), parseHTTP); err != nil {
		return cfg, fmt.Errorf("%s: %w", EnvStatusCodes, err)
	}
	if cfg.GRPCCodes, err = parseRules(getenv(EnvGRPCCodes, ""), parseGRPC); err != nil {
		return cfg, fmt.Errorf("%s: %w", EnvGRPCCodes, err)
	}
	return cfg, nil
}

// Options builds opresult.Options from cfg. extra options are applied after
// the configured ones and win on conflicts.
func (cfg Config) Options(extra ...opresult.Option) (*opresult.Options, error) {
	opts := []opresult.Option{
		opresult.WithAutoValidationResponse(cfg.AutoValidationResponse),
		opresult.WithErrorResponseFormat(cfg.ErrorFormat),
		opresult.WithValidationTitle(cfg.ValidationTitle),
	}
	for _, r := range cfg.StatusCodes {
		if r.Prefix() {
			opts = append(opts, opresult.WithStatusPrefix(r.Reason, r.Value))
			continue
		}
		opts = append(opts, opresult.WithHTTPStatus(failure.Reason(r.Reason), r.Value))
	}
	for _, r := range cfg.GRPCCodes {
		if r.Prefix() {
			opts = append(opts, opresult.WithStatusOptions(status.WithGRPCPrefix(r.Reason, r.Value)))
			continue
		}
		opts = append(opts, opresult.WithGRPCCode(failure.Reason(r.Reason), r.Value))
	}
	return opresult.New(append(opts, extra...)...)
}

func parseRules[T any](raw string, parse func(string) (T, error)) ([]Rule[T], error) {
	var out []Rule[T]
	for _, pair := range splitCSV(raw) {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("entry %q is not reason=value", pair)
		}
		key := failure.Normalize(k)
		if !strings.Contains(key, "*") {
			r, err := failure.Parse(key)
			if err != nil {
				return nil, err
			}
			key = string(r)
		}
		val, err := parse(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", pair, err)
		}
		out = append(out, Rule[T]{Reason: key, Value: val})
	}
	return out, nil
}

func parseHTTP(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 100 || n > 599 {
		return 0, fmt.Errorf("invalid HTTP status %q", s)
	}
	return n, nil
}

// parseGRPC accepts canonical names ("NOT_FOUND") and numbers ("5").
func parseGRPC(s string) (codes.Code, error) {
	var c codes.Code
	if n, err := strconv.Atoi(s); err == nil {
		s = strconv.Itoa(n)
	} else {
		s = strconv.Quote(strings.ToUpper(s))
	}
	if err := c.UnmarshalJSON([]byte(s)); err != nil {
		return 0, err
	}
	return c, nil
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
