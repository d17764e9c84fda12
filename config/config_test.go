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

package config

import (
	"net/http"
	"reflect"
	"testing"

	"dirpx.dev/opresult"
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/validation"
	"google.golang.org/grpc/codes"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LOG_PRETTY", "GIN_MODE", "OTEL_SERVICE_NAME",
		EnvAutoValidationResponse, EnvErrorFormat, EnvValidationTitle, EnvStatusCodes, EnvGRPCCodes,
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.LogLevel != "info" || cfg.LogPretty || cfg.GinMode != "release" {
		t.Fatalf("server defaults = %+v", cfg)
	}
	if !cfg.AutoValidationResponse || cfg.ErrorFormat != validation.GroupedByField || cfg.ValidationTitle != "" {
		t.Fatalf("opresult defaults = %+v", cfg)
	}
	if cfg.StatusCodes != nil || cfg.GRPCCodes != nil {
		t.Fatalf("rules = %v %v", cfg.StatusCodes, cfg.GRPCCodes)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("GIN_MODE", "bogus")
	t.Setenv(EnvAutoValidationResponse, "off")
	t.Setenv(EnvErrorFormat, "flat")
	t.Setenv(EnvValidationTitle, "Invalid request")
	t.Setenv(EnvStatusCodes, "client_error=422, not_found.*=410")
	t.Setenv(EnvGRPCCodes, "conflict=already_exists,validation=3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty || cfg.GinMode != "release" {
		t.Fatalf("server settings = %+v", cfg)
	}
	if cfg.AutoValidationResponse || cfg.ErrorFormat != validation.FlatList || cfg.ValidationTitle != "Invalid request" {
		t.Fatalf("opresult settings = %+v", cfg)
	}
	wantHTTP := []Rule[int]{{"client_error", 422}, {"not_found.*", 410}}
	if !reflect.DeepEqual(cfg.StatusCodes, wantHTTP) {
		t.Fatalf("StatusCodes = %v", cfg.StatusCodes)
	}
	wantGRPC := []Rule[codes.Code]{{"conflict", codes.AlreadyExists}, {"validation", codes.InvalidArgument}}
	if !reflect.DeepEqual(cfg.GRPCCodes, wantGRPC) {
		t.Fatalf("GRPCCodes = %v", cfg.GRPCCodes)
	}

	o, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if o.Format() != validation.FlatList || o.AutoValidationResponse() || o.ValidationTitle() != "Invalid request" {
		t.Fatal("scalar settings not carried over")
	}
	if got := o.ValidationProblem(validation.NewState().Add("A", "m"), opresult.Meta{}).Status; got != http.StatusUnprocessableEntity {
		t.Fatalf("validation status = %d", got)
	}
	if got := o.StatusCode(failure.NotFound.Qualify("order"), 500); got != http.StatusGone {
		t.Fatalf("prefix status = %d", got)
	}
	if got := o.GRPCCode(failure.Conflict, codes.Unknown); got != codes.AlreadyExists {
		t.Fatalf("grpc code = %v", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"log level", "LOG_LEVEL", "loud"},
		{"format", EnvErrorFormat, "xml"},
		{"status pair", EnvStatusCodes, "not_found"},
		{"status value", EnvStatusCodes, "not_found=4040"},
		{"status reason", EnvStatusCodes, "9lives=400"},
		{"grpc name", EnvGRPCCodes, "conflict=EXPLODED"},
		{"grpc number", EnvGRPCCodes, "conflict=99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%q must be rejected", tt.key, tt.val)
			}
		})
	}
}

func TestMustLoad_Panics(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvErrorFormat, "xml")
	defer func() {
		if recover() == nil {
			t.Fatal("MustLoad must panic")
		}
	}()
	MustLoad()
}
