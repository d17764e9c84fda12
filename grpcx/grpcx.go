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

// Package grpcx maps operation failures to gRPC statuses.
//
// A failed call carries, as status details:
//   - google.rpc.ErrorInfo with the failure reason and error details;
//   - google.rpc.BadRequest with one field violation per validation message;
//   - google.rpc.RequestInfo with the trace or request identifier;
//   - the problem descriptor as a google.protobuf.Struct.
package grpcx

import (
	"context"
	"errors"

	"dirpx.dev/opresult"
	"dirpx.dev/opresult/adapter"
	"dirpx.dev/opresult/metrics"
	"dirpx.dev/opresult/problem"
	"dirpx.dev/opresult/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
	"google.golang.org/protobuf/types/known/structpb"
)

// DefaultDomain is the ErrorInfo domain used when none is configured.
const DefaultDomain = "opresult.dirpx.dev"

// MetaFn extracts request-scoped values from the call context. It may return
// an empty Meta.
type MetaFn func(ctx context.Context, info *grpc.UnaryServerInfo) opresult.Meta

// Option configures UnaryServerInterceptor.
type Option func(*interceptor)

// WithDomain sets the ErrorInfo domain.
func WithDomain(domain string) Option {
	return func(i *interceptor) { i.domain = domain }
}

// WithMetrics records every mapped failure on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(i *interceptor) { i.metrics = r }
}

type interceptor struct {
	opts    *opresult.Options
	metaFn  MetaFn
	domain  string
	metrics *metrics.Recorder
}

// UnaryServerInterceptor returns a gRPC UnaryServerInterceptor that maps
// handler failures into gRPC statuses with rich details.
//
// Errors that already carry a gRPC status are returned as-is. Every other
// error is classified with opresult.FromError, so foreign errors surface as
// Internal without their text. The code comes from the options' gRPC table.
//
// If metaFn is nil, the method name is used as instance and a random request
// id is generated.
func UnaryServerInterceptor(o *opresult.Options, metaFn MetaFn, opts ...Option) grpc.UnaryServerInterceptor {
	if metaFn == nil {
		metaFn = func(_ context.Context, info *grpc.UnaryServerInfo) opresult.Meta {
			return opresult.Meta{Instance: info.FullMethod, RequestID: uuid.NewString()}
		}
	}
	i := &interceptor{opts: o, metaFn: metaFn, domain: DefaultDomain}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		var own *opresult.Error
		if _, ok := gstatus.FromError(err); ok && !errors.As(err, &own) {
			return nil, err
		}
		return nil, i.status(ctx, info, opresult.FromError(err)).Err()
	}
}

func (i *interceptor) status(ctx context.Context, info *grpc.UnaryServerInfo, e *opresult.Error) *gstatus.Status {
	meta := i.metaFn(ctx, info)
	d := i.opts.Problem(e, meta)
	code := i.opts.ResolveGRPCCode(e.Reason)
	i.metrics.Observe(e.Reason, d)

	if code == codes.Internal || code == codes.Unknown || code == codes.DataLoss {
		zerolog.Ctx(ctx).Error().
			Err(e.Cause).
			Str("reason", string(e.Reason)).
			Str("method", info.FullMethod).
			Msg("rpc failed")
	}

	msg := d.Detail
	if msg == "" {
		msg = d.Title
	}
	base := gstatus.New(code, msg)

	details := []protoadapt.MessageV1{
		protoadapt.MessageV1Of(adapter.ErrorInfo(e, i.domain)),
	}
	if e.Validation != nil {
		details = append(details, protoadapt.MessageV1Of(&errdetails.BadRequest{
			FieldViolations: adapter.FieldViolations(e.Validation),
		}))
	}
	details = append(details, protoadapt.MessageV1Of(adapter.RequestInfo(opresult.Meta{
		TraceID:  d.TraceID,
		Instance: meta.Instance,
	})))
	if s, err := adapter.ProblemStruct(d); err == nil {
		details = append(details, protoadapt.MessageV1Of(s))
	}

	// Try to attach details. If it fails, return the base status.
	if with, err := base.WithDetails(details...); err == nil {
		return with
	}
	return base
}

// ExtractViolations rebuilds the validation snapshot of a gRPC error, if it
// carries google.rpc.BadRequest details. Useful in tests and client code.
func ExtractViolations(err error) (*validation.State, bool) {
	st, ok := gstatus.FromError(err)
	if !ok || err == nil {
		return nil, false
	}
	for _, d := range st.Details() {
		if br, ok := d.(*errdetails.BadRequest); ok {
			return adapter.StateFromViolations(br.GetFieldViolations()), true
		}
	}
	return nil, false
}

// ExtractProblem pulls the problem descriptor out of a gRPC error, if present.
func ExtractProblem(err error) (problem.Descriptor, bool) {
	st, ok := gstatus.FromError(err)
	if !ok || err == nil {
		return problem.Descriptor{}, false
	}
	for _, d := range st.Details() {
		if s, ok := d.(*structpb.Struct); ok {
			pd, err := adapter.DescriptorFromStruct(s)
			return pd, err == nil
		}
	}
	return problem.Descriptor{}, false
}

// ExtractErrorInfo pulls google.rpc.ErrorInfo out of a gRPC error, if present.
func ExtractErrorInfo(err error) (*errdetails.ErrorInfo, bool) {
	st, ok := gstatus.FromError(err)
	if !ok || err == nil {
		return nil, false
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info, true
		}
	}
	return nil, false
}
