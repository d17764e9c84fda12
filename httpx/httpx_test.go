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

package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dirpx.dev/opresult"
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/metrics"
	"dirpx.dev/opresult/problem"
	"dirpx.dev/opresult/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

func spanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	tid, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	if err != nil {
		t.Fatal(err)
	}
	sid, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	if err != nil {
		t.Fatal(err)
	}
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tid,
		SpanID:     sid,
		TraceFlags: trace.FlagsSampled,
	})
}

func TestMetaFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/people?x=1", nil)
	r.Header.Set(RequestIDHeader, "req-1")
	r = r.WithContext(trace.ContextWithSpanContext(r.Context(), spanContext(t)))

	m := MetaFromRequest(r)
	if m.Instance != "/people" || m.RequestID != "req-1" {
		t.Fatalf("meta = %+v", m)
	}
	if m.TraceID != "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01" {
		t.Fatalf("TraceID = %q", m.TraceID)
	}

	bare := MetaFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	if bare.TraceID != "" || bare.RequestID == "" {
		t.Fatalf("meta without span = %+v", bare)
	}
}

func TestWriter_WriteValidation_FlatList(t *testing.T) {
	w := Writer{Options: opresult.MustNew(opresult.WithErrorResponseFormat(validation.FlatList))}
	r := httptest.NewRequest(http.MethodPost, "/people", nil)
	r = r.WithContext(trace.ContextWithSpanContext(r.Context(), spanContext(t)))
	rec := httptest.NewRecorder()

	w.WriteValidation(rec, r, validation.NewState().Add("Email", "Required").Add("Age", "Must be positive"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != problem.ContentType {
		t.Fatalf("Content-Type = %q", ct)
	}
	want := `{"type":"https://httpstatuses.io/400",` +
		`"title":"One or more validation errors occurred",` +
		`"status":400,` +
		`"instance":"/people",` +
		`"traceId":"00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",` +
		`"errors":[{"field":"Email","message":"Required"},{"field":"Age","message":"Must be positive"}]}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("body\n got: %s\nwant: %s", got, want)
	}
}

func TestWriter_WriteError(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.MustNewRecorder(reg)
	w := Writer{Options: opresult.MustNew(), Metrics: rec}

	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"not found", opresult.E(failure.NotFound, "person 7 does not exist"), 404, "person 7 does not exist"},
		{"conflict", opresult.E(failure.Conflict, "email taken"), 409, "email taken"},
		{"foreign", errors.New("pq: relation does not exist"), 500, "An unexpected error occurred."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			w.WriteError(resp, httptest.NewRequest(http.MethodGet, "/people/7", nil), tt.err)
			if resp.Code != tt.status {
				t.Fatalf("status = %d, want %d", resp.Code, tt.status)
			}
			var d problem.Descriptor
			if err := json.Unmarshal(resp.Body.Bytes(), &d); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if d.Detail != tt.detail || d.Instance != "/people/7" || d.TraceID == "" || d.HasErrors() {
				t.Fatalf("descriptor = %+v", d)
			}
			if strings.Contains(resp.Body.String(), `"errors"`) {
				t.Fatal("non-validation problems must not carry errors")
			}
		})
	}

	n, err := testutil.GatherAndCount(reg, "opresult_problem_responses_total")
	if err != nil || n != 3 {
		t.Fatalf("series = %d, err = %v", n, err)
	}
}

func TestWriter_WriteError_NilWritesNothing(t *testing.T) {
	resp := httptest.NewRecorder()
	Writer{Options: opresult.MustNew()}.WriteError(resp, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if resp.Body.Len() != 0 || resp.Header().Get("Content-Type") != "" {
		t.Fatal("nil error must not write a response")
	}
}

func TestWriter_LogsServerErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r := httptest.NewRequest(http.MethodGet, "/boom", nil)
	r = r.WithContext(logger.WithContext(r.Context()))

	w := Writer{Options: opresult.MustNew()}
	w.WriteError(httptest.NewRecorder(), r, errors.New("disk full"))
	if !strings.Contains(buf.String(), "disk full") || !strings.Contains(buf.String(), `"status":500`) {
		t.Fatalf("log = %s", buf.String())
	}

	buf.Reset()
	w.WriteError(httptest.NewRecorder(), r, opresult.E(failure.NotFound, "x"))
	if buf.Len() != 0 {
		t.Fatalf("client errors must not be logged: %s", buf.String())
	}
}

func TestWriter_WriteErrorMeta(t *testing.T) {
	var buf bytes.Buffer
	r := httptest.NewRequest(http.MethodGet, "/boom", nil)
	r = r.WithContext(zerolog.New(&buf).WithContext(r.Context()))

	resp := httptest.NewRecorder()
	Writer{Options: opresult.MustNew()}.WriteErrorMeta(resp, r, errors.New("disk full"), opresult.Meta{Instance: "/jobs/1", TraceID: "t-1"})
	var d problem.Descriptor
	if err := json.Unmarshal(resp.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Status != http.StatusInternalServerError || d.Instance != "/jobs/1" || d.TraceID != "t-1" {
		t.Fatalf("descriptor = %+v", d)
	}
	if !strings.Contains(buf.String(), `"error":"disk full"`) {
		t.Fatalf("log = %s", buf.String())
	}
}

func TestWriteResult(t *testing.T) {
	w := Writer{Options: opresult.MustNew()}
	type person struct {
		Name string `json:"name"`
	}

	ok := httptest.NewRecorder()
	WriteResult(w, ok, httptest.NewRequest(http.MethodGet, "/people/1", nil), opresult.Ok(person{Name: "Ada"}), http.StatusOK)
	if ok.Code != 200 || strings.TrimSpace(ok.Body.String()) != `{"name":"Ada"}` {
		t.Fatalf("ok response = %d %s", ok.Code, ok.Body.String())
	}

	empty := httptest.NewRecorder()
	WriteResult(w, empty, httptest.NewRequest(http.MethodDelete, "/people/1", nil), opresult.Ok(struct{}{}), http.StatusNoContent)
	if empty.Code != 204 || empty.Body.Len() != 0 {
		t.Fatalf("no content response = %d %q", empty.Code, empty.Body.String())
	}

	failed := httptest.NewRecorder()
	WriteResult(w, failed, httptest.NewRequest(http.MethodGet, "/people/2", nil),
		opresult.Fail[person](opresult.E(failure.NotFound, "missing")), http.StatusOK)
	if failed.Code != 404 || failed.Header().Get("Content-Type") != problem.ContentType {
		t.Fatalf("failed response = %d %q", failed.Code, failed.Header().Get("Content-Type"))
	}
}
