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

// Package opresult turns operation outcomes into standardized HTTP problem
// responses.
//
// An application reports a failed operation as an *Error carrying a
// failure.Reason (and, for validation failures, a per-field
// validation.State). At startup the host builds one immutable *Options value
// that decides how reasons map to status codes, which shape validation
// errors take, and how validation problems are titled:
//
//	opts, err := opresult.New(
//	    opresult.WithHTTPStatus(failure.Conflict, http.StatusUnprocessableEntity),
//	    opresult.WithErrorResponseFormat(validation.FlatList),
//	    opresult.WithValidationTitle("The request is invalid"),
//	)
//
// Request handlers (or the adapters in httpx, ginx and grpcx) then call
// Options.Problem or Options.ValidationProblem to obtain a problem.Descriptor
// and send it with Descriptor.Status as the transport status.
//
// Options never changes after New returns, so a single value can be shared by
// every request without locking.
package opresult
