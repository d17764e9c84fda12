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
	"google.golang.org/grpc/codes"
)

// StatusPolicy resolves failure reasons into transport statuses.
//
// Implementations must be immutable and safe for concurrent use, and lookups
// must never fail: a reason with no rule resolves to the fallback.
type StatusPolicy interface {
	// StatusCode returns the HTTP status for r, or fallback when r has no
	// mapping. The result is never zero.
	StatusCode(r failure.Reason, fallback int) int

	// GRPCCode returns the gRPC code for r, or fallback when r has no mapping.
	GRPCCode(r failure.Reason, fallback codes.Code) codes.Code
}

// Explainer is implemented by policies that can describe how a reason was
// resolved. Implementations may return an empty string.
type Explainer interface {
	Explain(r failure.Reason) string
}
