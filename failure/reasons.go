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

package failure

// Client-side reasons
//
// These reasons describe outcomes where the caller has to change the request
// before trying again.
const (
	// ClientError indicates a generic problem with the request that does not
	// fit a more specific reason.
	//
	// Can be mapped to an HTTP 400.
	ClientError Reason = "client_error"

	// Validation indicates that one or more fields of the request failed
	// validation. Outcomes with this reason normally carry a per-field
	// validation snapshot.
	//
	// Resolves through the ClientError mapping unless configured on its own.
	Validation Reason = "validation"

	// InvalidFile indicates that an uploaded file is malformed, has the
	// wrong content type or cannot be processed.
	//
	// Can be mapped to an HTTP 400.
	InvalidFile Reason = "invalid_file"

	// PayloadTooLarge indicates that the request body exceeds the accepted
	// size.
	//
	// Can be mapped to an HTTP 413.
	PayloadTooLarge Reason = "payload_too_large"

	// TooManyRequests indicates that the caller hit a rate limit or quota.
	//
	// Can be mapped to an HTTP 429.
	TooManyRequests Reason = "too_many_requests"
)

// Resource reasons
const (
	// NotFound indicates that the target item does not exist (or is not
	// visible to the caller).
	//
	// Can be mapped to an HTTP 404.
	NotFound Reason = "not_found"

	// Conflict indicates that the operation clashes with the current state of
	// the target, e.g. a duplicate key or a concurrent update.
	//
	// Can be mapped to an HTTP 409.
	Conflict Reason = "conflict"
)

// Access reasons
//
// HTTP distinguishes 401 from 403, so we keep them apart here too.
const (
	// Unauthorized indicates that the caller is not authenticated.
	//
	// Can be mapped to an HTTP 401.
	Unauthorized Reason = "unauthorized"

	// Forbidden indicates that the caller is authenticated but not allowed to
	// perform the operation.
	//
	// Can be mapped to an HTTP 403.
	Forbidden Reason = "forbidden"
)

// Server-side reasons
const (
	// ServerError indicates an unexpected failure on the server side. Use
	// this as the fallback when no more specific reason applies.
	//
	// Can be mapped to an HTTP 500.
	ServerError Reason = "server_error"

	// DatabaseError indicates that the storage layer failed while serving the
	// operation.
	//
	// Can be mapped to an HTTP 500.
	DatabaseError Reason = "database_error"

	// Unavailable indicates that a required dependency is temporarily
	// unreachable or the operation was abandoned before completing.
	//
	// Can be mapped to an HTTP 503.
	Unavailable Reason = "unavailable"
)

// known lists the built-in catalogue in declaration order.
var known = []Reason{
	ClientError,
	Validation,
	InvalidFile,
	PayloadTooLarge,
	TooManyRequests,
	NotFound,
	Conflict,
	Unauthorized,
	Forbidden,
	ServerError,
	DatabaseError,
	Unavailable,
}

// Known returns the built-in reasons in declaration order. The returned slice
// is a copy.
func Known() []Reason {
	out := make([]Reason, len(known))
	copy(out, known)
	return out
}

// IsKnown reports whether the root of r is part of the built-in catalogue.
func IsKnown(r Reason) bool {
	root := r.Root()
	for _, k := range known {
		if k == root {
			return true
		}
	}
	return false
}

// IsClientSide reports whether r (or its root) describes a problem with the
// request itself, i.e. one the protocol reports with 400 when nothing more
// specific is configured.
func IsClientSide(r Reason) bool {
	return r.Is(ClientError) || r.Is(Validation)
}
