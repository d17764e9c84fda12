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

import "dirpx.dev/opresult/failure"

// Result is the outcome of an operation: either a value or an *Error.
//
// Result is a small value type; return it by value.
type Result[T any] struct {
	value T
	err   *Error
}

// Ok returns a successful Result holding v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail returns a failed Result. err is classified with FromError; a nil err
// is recorded as a server error so a failed Result always carries a reason.
func Fail[T any](err error) Result[T] {
	e := FromError(err)
	if e == nil {
		e = E(failure.ServerError, unexpectedMessage)
	}
	return Result[T]{err: e}
}

// Succeeded reports whether the operation succeeded.
func (r Result[T]) Succeeded() bool { return r.err == nil }

// Value returns the value of a successful Result, or the zero value.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure, or nil on success.
//
// Note that a nil *Error stored in an error interface is not a nil error;
// check Succeeded before converting.
func (r Result[T]) Err() *Error { return r.err }

// Reason returns the failure reason, or failure.Empty on success.
func (r Result[T]) Reason() failure.Reason {
	if r.err == nil {
		return failure.Empty
	}
	return r.err.Reason
}

// Unpack returns the value and the failure as a plain error, which is nil on
// success.
func (r Result[T]) Unpack() (T, error) {
	if r.err == nil {
		return r.value, nil
	}
	return r.value, r.err
}
