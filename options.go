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

package opresult

import (
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/problem"
	"dirpx.dev/opresult/status"
	"dirpx.dev/opresult/validation"
	"google.golang.org/grpc/codes"
)

// Options is the process-wide operation-result configuration.
//
// It is built once by New and is read-only afterwards; all fields are
// unexported and there are no setters. The zero value is not usable; call
// New.
type Options struct {
	policy          *status.Policy
	format          validation.Format
	autoValidation  bool
	titleProvider   problem.TitleProvider
	validationTitle string
}

// Meta carries the request-scoped values a problem descriptor needs. Adapters
// fill it at the edge from the transport request.
type Meta struct {
	// Instance is the logical request path.
	Instance string
	// TraceID is the active distributed-trace identifier, if any.
	TraceID string
	// RequestID is the request-scoped identifier used when there is no trace.
	RequestID string
}

// New builds an Options value from the given options. Options are applied in
// order; the last one wins for scalar settings and status rules accumulate.
//
// Defaults: library status table, GroupedByField, automatic validation
// responses enabled, no title provider and problem.DefaultValidationTitle.
func New(opts ...Option) (*Options, error) {
	s := settings{
		format:          validation.GroupedByField,
		autoValidation:  true,
		validationTitle: problem.DefaultValidationTitle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	policy, err := status.New(s.statusOpts...)
	if err != nil {
		return nil, err
	}
	return &Options{
		policy:          policy,
		format:          s.format,
		autoValidation:  s.autoValidation,
		titleProvider:   s.titleProvider,
		validationTitle: s.validationTitle,
	}, nil
}

// MustNew is New that panics on error.
func MustNew(opts ...Option) *Options {
	o, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return o
}

// Policy returns the status policy.
func (o *Options) Policy() *status.Policy { return o.policy }

// StatusCode returns the HTTP status configured for r, or fallback.
func (o *Options) StatusCode(r failure.Reason, fallback int) int {
	return o.policy.StatusCode(r, fallback)
}

// GRPCCode returns the gRPC code configured for r, or fallback.
func (o *Options) GRPCCode(r failure.Reason, fallback codes.Code) codes.Code {
	return o.policy.GRPCCode(r, fallback)
}

// ResolveGRPCCode returns the gRPC code of r with the protocol fallback:
// InvalidArgument for client-side reasons, Internal otherwise. Validation
// reasons follow the failure.ClientError code unless configured on their own.
func (o *Options) ResolveGRPCCode(r failure.Reason) codes.Code {
	fallback := codes.Internal
	if failure.IsClientSide(r) {
		fallback = codes.InvalidArgument
	}
	if r.Is(failure.Validation) {
		fallback = o.policy.GRPCCode(failure.ClientError, fallback)
	}
	return o.policy.GRPCCode(r, fallback)
}

// Explain describes how the policy resolves r.
func (o *Options) Explain(r failure.Reason) string { return o.policy.Explain(r) }

// Format returns the configured validation payload shape.
func (o *Options) Format() validation.Format { return o.format }

// AutoValidationResponse reports whether adapters should answer request
// validation failures with a validation problem on their own.
func (o *Options) AutoValidationResponse() bool { return o.autoValidation }

// ValidationTitle returns the configured default title of validation
// problems.
func (o *Options) ValidationTitle() string { return o.validationTitle }

// ValidationProblem builds the descriptor for a request whose input failed
// validation. Its status resolves through failure.Validation, which follows
// the failure.ClientError mapping unless configured on its own.
func (o *Options) ValidationProblem(state *validation.State, m Meta) problem.Descriptor {
	return o.validationProblem(failure.Validation, "", state, m)
}

// Problem builds the descriptor for err. Errors that are not *Error are
// classified with FromError first. A nil err yields a server error
// descriptor.
func (o *Options) Problem(err error, m Meta) problem.Descriptor {
	e := FromError(err)
	if e == nil {
		e = E(failure.ServerError, unexpectedMessage)
	}
	if e.Validation != nil {
		return o.validationProblem(e.Reason, e.Message, e.Validation, m)
	}
	return problem.Build(problem.Input{
		Reason:    e.Reason,
		Detail:    e.Message,
		Instance:  m.Instance,
		TraceID:   m.TraceID,
		RequestID: m.RequestID,
	}, o.policy)
}

func (o *Options) validationProblem(r failure.Reason, detail string, state *validation.State, m Meta) problem.Descriptor {
	return problem.Build(problem.Input{
		Reason:        r,
		State:         state,
		Payload:       validation.Aggregate(state, o.format),
		TitleProvider: o.titleProvider,
		DefaultTitle:  o.validationTitle,
		Detail:        detail,
		Instance:      m.Instance,
		TraceID:       m.TraceID,
		RequestID:     m.RequestID,
	}, o.policy)
}
