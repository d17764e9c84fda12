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
	"context"
	"errors"
	"fmt"
	"maps"

	"dirpx.dev/opresult/apis"
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/validation"
)

const unexpectedMessage = "An unexpected error occurred."

// Error is the failure outcome of an operation.
//
// It carries:
//   - Reason: why the operation failed (required);
//   - Message: human-oriented description, exposed as the problem detail;
//   - Validation: optional per-field failures;
//   - Details: arbitrary key/value payload for logs;
//   - Cause: wrapped underlying error for debugging / unwrapping.
//
// All mutation helpers (WithX) return a shallow copy, so Error values can be
// safely shared and refined in a functional style.
type Error struct {
	Reason     failure.Reason
	Message    string
	Validation *validation.State
	Details    map[string]any
	Cause      error
}

var (
	_ apis.ReasonedError     = (*Error)(nil)
	_ apis.ValidationCarrier = (*Error)(nil)
)

// E is a convenience constructor for Error.
//
//	return opresult.E(failure.NotFound, "order 42 does not exist",
//	    opresult.WithDetailOption("order_id", 42),
//	)
func E(r failure.Reason, msg string, opts ...ErrorOption) *Error {
	e := &Error{Reason: r, Message: msg}
	for _, opt := range opts {
		e = opt(e)
	}
	return e
}

// Invalid returns a validation failure for state. The state is cloned.
func Invalid(state *validation.State, opts ...ErrorOption) *Error {
	e := &Error{Reason: failure.Validation, Validation: state.Clone()}
	for _, opt := range opts {
		e = opt(e)
	}
	return e
}

// Error implements the built-in error interface.
//
// The format is:
//
//	<reason>: <message>
//
// followed by " (<n> validation errors)" when a snapshot is attached.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = "operation failed"
	}
	if n := e.Validation.ErrorCount(); n > 0 {
		return fmt.Sprintf("%s: %s (%d validation errors)", e.Reason, msg, n)
	}
	return fmt.Sprintf("%s: %s", e.Reason, msg)
}

// Unwrap returns the underlying cause, enabling errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Cause }

// FailureReason implements apis.ReasonedError.
func (e *Error) FailureReason() failure.Reason { return e.Reason }

// ValidationState implements apis.ValidationCarrier.
func (e *Error) ValidationState() *validation.State { return e.Validation }

// WithReason returns a copy of e with the given Reason.
func (e *Error) WithReason(r failure.Reason) *Error {
	cp := *e
	cp.Reason = r
	return &cp
}

// WithMessage returns a copy of e with a replaced message.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithFieldError returns a copy of e with messages added for field. The
// snapshot is copied, so e keeps its own.
func (e *Error) WithFieldError(field string, messages ...string) *Error {
	cp := *e
	cp.Validation = e.Validation.Clone().Add(field, messages...)
	return &cp
}

// WithValidation returns a copy of e carrying a clone of state.
func (e *Error) WithValidation(state *validation.State) *Error {
	cp := *e
	if state == nil {
		cp.Validation = nil
	} else {
		cp.Validation = state.Clone()
	}
	return &cp
}

// WithDetail returns a copy of e with one extra key/value in Details.
//
// The map is always copied, so errors shared across goroutines are never
// modified.
func (e *Error) WithDetail(k string, v any) *Error {
	return e.WithDetails(map[string]any{k: v})
}

// WithDetails returns a copy of e with kv merged into Details; kv wins on key
// conflicts.
func (e *Error) WithDetails(kv map[string]any) *Error {
	if len(kv) == 0 {
		return e
	}
	cp := *e
	m := make(map[string]any, len(cp.Details)+len(kv))
	maps.Copy(m, cp.Details)
	maps.Copy(m, kv)
	cp.Details = m
	return &cp
}

// WithCause returns a copy of e with the given underlying cause attached.
// If err is nil, e is returned unchanged.
func (e *Error) WithCause(err error) *Error {
	if err == nil {
		return e
	}
	cp := *e
	cp.Cause = err
	return &cp
}

// FromError classifies an arbitrary error as an *Error.
//
//   - nil stays nil;
//   - an *Error anywhere in the chain is returned as-is;
//   - apis.ReasonedError and apis.ValidationCarrier keep their reason and
//     snapshot;
//   - github.com/go-playground/validator/v10 failures become validation
//     errors;
//   - context cancellation and deadlines become failure.Unavailable;
//   - everything else becomes failure.ServerError with a generic message, so
//     internal error text is not exposed to clients.
//
// Except for the first two cases the original error is kept as Cause.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e
	}

	var reasoned apis.ReasonedError
	var carrier apis.ValidationCarrier
	hasReason := errors.As(err, &reasoned)
	hasState := errors.As(err, &carrier)
	switch {
	case hasReason:
		out := E(reasoned.FailureReason(), reasoned.Error()).WithCause(err)
		if hasState {
			out = out.WithValidation(carrier.ValidationState())
		}
		return out
	case hasState:
		return Invalid(carrier.ValidationState()).WithCause(err)
	}

	if state, ok := validation.FromValidator(err); ok {
		return Invalid(state).WithCause(err)
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return E(failure.Unavailable, "The operation timed out.").WithCause(err)
	case errors.Is(err, context.Canceled):
		return E(failure.Unavailable, "The operation was canceled.").WithCause(err)
	}
	return E(failure.ServerError, unexpectedMessage).WithCause(err)
}
