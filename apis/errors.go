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

package apis

import (
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/validation"
)

// ReasonedError represents an error that is classified by a failure reason.
//
// The reason is the primary value that adapters use to decide which status
// to return. Adapters treat errors that do not implement this interface as
// failure.ServerError.
type ReasonedError interface {
	error

	// FailureReason returns the canonical failure reason. It MUST be
	// non-empty.
	FailureReason() failure.Reason
}

// ValidationCarrier represents an error that carries a per-field validation
// snapshot. Adapters render such errors with an "errors" member.
//
// Implementations SHOULD return a snapshot the caller may keep; returning nil
// means "no validation details".
type ValidationCarrier interface {
	error

	// ValidationState returns the validation snapshot. May return nil.
	ValidationState() *validation.State
}
