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

// Package httpx writes operation outcomes as net/http responses.
//
// Failures are written as application/problem+json descriptors built by
// opresult.Options; successes are written as plain JSON.
package httpx

import (
	"encoding/json"
	"net/http"

	"dirpx.dev/opresult"
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/metrics"
	"dirpx.dev/opresult/problem"
	"dirpx.dev/opresult/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader is the header used to propagate the request identifier.
const RequestIDHeader = "X-Request-ID"

// Writer is a thin adapter that turns operation outcomes into HTTP responses
// using the provided options. Metrics may be nil.
type Writer struct {
	Options *opresult.Options
	Metrics *metrics.Recorder
}

// MetaFromRequest collects the request-scoped values of a problem descriptor:
//
//   - TraceID: the active OpenTelemetry span as a W3C traceparent value
//     ("00-<trace-id>-<span-id>-<flags>"), empty when there is no valid span;
//   - RequestID: the X-Request-ID header, or a new UUID;
//   - Instance: the request path.
func MetaFromRequest(r *http.Request) opresult.Meta {
	m := opresult.Meta{
		Instance:  r.URL.Path,
		RequestID: r.Header.Get(RequestIDHeader),
	}
	if m.RequestID == "" {
		m.RequestID = uuid.NewString()
	}
	m.TraceID = Traceparent(trace.SpanContextFromContext(r.Context()))
	return m
}

// Traceparent formats sc as a W3C traceparent value. It returns "" for an
// invalid span context.
func Traceparent(sc trace.SpanContext) string {
	if !sc.IsValid() {
		return ""
	}
	return "00-" + sc.TraceID().String() + "-" + sc.SpanID().String() + "-" + sc.TraceFlags().String()
}

// WriteProblem serializes d as application/problem+json. The HTTP status is
// d.Status. Server errors are logged through the request logger (zerolog.Ctx).
func (w Writer) WriteProblem(rw http.ResponseWriter, r *http.Request, reason failure.Reason, d problem.Descriptor) {
	if d.Status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().
			Int("status", d.Status).
			Str("reason", string(reason)).
			Str("trace_id", d.TraceID).
			Str("instance", d.Instance).
			Msg("problem response")
	}
	w.Metrics.Observe(reason, d)

	rw.Header().Set("Content-Type", problem.ContentType)
	rw.WriteHeader(d.Status)
	_ = json.NewEncoder(rw).Encode(d)
}

// WriteError classifies err with opresult.FromError and writes its problem.
// A nil err writes nothing.
func (w Writer) WriteError(rw http.ResponseWriter, r *http.Request, err error) {
	w.WriteErrorMeta(rw, r, err, MetaFromRequest(r))
}

// WriteErrorMeta is WriteError with the problem metadata supplied by the
// caller. The cause of a server error is logged before the problem is
// written, since the response never carries it.
func (w Writer) WriteErrorMeta(rw http.ResponseWriter, r *http.Request, err error, m opresult.Meta) {
	if err == nil {
		return
	}
	e := opresult.FromError(err)
	if e.Reason.Is(failure.ServerError) && e.Cause != nil {
		zerolog.Ctx(r.Context()).Error().Err(e.Cause).Str("reason", string(e.Reason)).Msg("operation failed")
	}
	w.WriteProblem(rw, r, e.Reason, w.Options.Problem(e, m))
}

// WriteValidation writes the validation problem of state.
func (w Writer) WriteValidation(rw http.ResponseWriter, r *http.Request, state *validation.State) {
	w.WriteProblem(rw, r, failure.Validation, w.Options.ValidationProblem(state, MetaFromRequest(r)))
}

// WriteJSON writes v as application/json with the given status.
func (w Writer) WriteJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

// WriteResult writes res: its value with okStatus on success, its problem
// otherwise. An okStatus of 204 writes no body.
func WriteResult[T any](w Writer, rw http.ResponseWriter, r *http.Request, res opresult.Result[T], okStatus int) {
	if !res.Succeeded() {
		w.WriteError(rw, r, res.Err())
		return
	}
	if okStatus == http.StatusNoContent {
		rw.WriteHeader(okStatus)
		return
	}
	w.WriteJSON(rw, okStatus, res.Value())
}
