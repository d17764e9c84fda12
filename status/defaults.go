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

package status

import (
	"net/http"

	"dirpx.dev/opresult/failure"
	"google.golang.org/grpc/codes"
)

// defaultHTTP is the built-in HTTP table. failure.Validation is deliberately
// absent: validation outcomes resolve through failure.ClientError unless a
// host registers a status for them explicitly.
var defaultHTTP = map[failure.Reason]int{
	// 4xx: the caller has to change the request.
	failure.ClientError:     http.StatusBadRequest,
	failure.InvalidFile:     http.StatusBadRequest,
	failure.PayloadTooLarge: http.StatusRequestEntityTooLarge,
	failure.TooManyRequests: http.StatusTooManyRequests,
	failure.NotFound:        http.StatusNotFound,
	failure.Conflict:        http.StatusConflict,
	failure.Unauthorized:    http.StatusUnauthorized,
	failure.Forbidden:       http.StatusForbidden,

	// 5xx: server side.
	failure.ServerError:   http.StatusInternalServerError,
	failure.DatabaseError: http.StatusInternalServerError,
	failure.Unavailable:   http.StatusServiceUnavailable,
}

// defaultGRPC mirrors defaultHTTP with canonical gRPC codes.
var defaultGRPC = map[failure.Reason]codes.Code{
	failure.ClientError:     codes.InvalidArgument,
	failure.InvalidFile:     codes.InvalidArgument,
	failure.PayloadTooLarge: codes.ResourceExhausted,
	failure.TooManyRequests: codes.ResourceExhausted,
	failure.NotFound:        codes.NotFound,
	failure.Conflict:        codes.Aborted, // gRPC AlreadyExists is narrower than a generic conflict.
	failure.Unauthorized:    codes.Unauthenticated,
	failure.Forbidden:       codes.PermissionDenied,

	failure.ServerError:   codes.Internal,
	failure.DatabaseError: codes.Internal,
	failure.Unavailable:   codes.Unavailable,
}
