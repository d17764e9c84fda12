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

// Package status resolves failure reasons (dirpx.dev/opresult/failure) into
// transport statuses for HTTP and gRPC.
//
// # Overview
//
// A Policy is the "status code" half of the operation-result options: it is
// configured once at process start and then read by every request that ends
// in a failure. It is:
//
//   - immutable: a Policy is a snapshot, safe for concurrent reuse;
//   - overridable: callers can change library defaults per reason;
//   - prefix-aware: callers can add rules for qualified reasons such as
//     "not_found.order";
//   - dual: HTTP and gRPC are resolved with the same logic.
//
// # Resolution model
//
// StatusCode (and GRPCCode) resolve in the following order:
//
//  1. exact override for the reason;
//  2. longest-prefix-match (LPM) over the reason segments;
//  3. the default for the reason; a qualified reason without one takes the
//     override or default of its nearest ancestor, the override winning at
//     each level;
//  4. the fallback supplied by the caller.
//
// Lookups never fail. A reason that was never registered, including one
// introduced by the host at configuration time, resolves to the fallback.
//
// # Building a policy
//
//	p, err := status.New(
//	    status.WithHTTPStatus(failure.Conflict, http.StatusUnprocessableEntity),
//	    status.WithHTTPPrefix("not_found.archive", http.StatusGone),
//	)
//	if err != nil {
//	    // invalid prefix or status code
//	}
//
//	p.StatusCode(failure.NotFound.Qualify("archive"), http.StatusInternalServerError) // 410
//
// # Diagnostics
//
// Policy.Explain returns a human-readable trace of how a reason was resolved,
// including which tier matched. It is meant for logs and tests, not for stable
// machine parsing.
package status
