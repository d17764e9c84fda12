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

package problem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"dirpx.dev/opresult/apis"
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/validation"
	"github.com/google/uuid"
)

// ContentType is the media type of a serialized Descriptor.
const ContentType = "application/problem+json"

// TypeURIPrefix is the base of every Descriptor.Type.
const TypeURIPrefix = "https://httpstatuses.io/"

// DefaultValidationTitle is the title of validation problems when neither a
// title provider nor a configured default supplies one.
const DefaultValidationTitle = "One or more validation errors occurred"

// TitleProvider computes a title from the validation snapshot. Returning
// false (or an empty title) defers to the configured default.
type TitleProvider func(s *validation.State) (string, bool)

// Descriptor is the body of a problem response. The transport status of the
// response must equal Status.
type Descriptor struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	TraceID  string `json:"traceId"`
	// Errors is nil for problems that are not about validation, and the
	// member is then omitted from JSON.
	Errors validation.Payload `json:"errors,omitempty"`
}

// HasErrors reports whether the descriptor carries a validation payload.
func (d Descriptor) HasErrors() bool {
	return d.Errors != nil
}

// UnmarshalJSON implements json.Unmarshaler. The errors member is decoded as
// validation.Grouped when it is an object and as validation.Flat when it is
// an array.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	type plain Descriptor
	var aux struct {
		plain
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	out := Descriptor(aux.plain)
	out.Errors = nil

	raw := bytes.TrimSpace(aux.Errors)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '{':
		var g validation.Grouped
		if err := json.Unmarshal(raw, &g); err != nil {
			return err
		}
		out.Errors = g
	case raw[0] == '[':
		f := validation.Flat{}
		if err := json.Unmarshal(raw, (*[]validation.Error)(&f)); err != nil {
			return err
		}
		out.Errors = f
	default:
		return fmt.Errorf("problem: errors member must be an object or an array")
	}
	*d = out
	return nil
}

// Input carries everything Build needs for one failed request.
type Input struct {
	// Reason classifies the failure. An empty reason is treated as
	// failure.Validation when Payload is set and failure.ServerError
	// otherwise.
	Reason failure.Reason

	// State is the validation snapshot passed to TitleProvider. It may be nil.
	State *validation.State

	// Payload is the aggregated validation payload. When nil the descriptor
	// has no errors member.
	Payload validation.Payload

	TitleProvider TitleProvider
	DefaultTitle  string
	Detail        string

	// Instance is the logical request path.
	Instance string

	// TraceID is the active distributed-trace identifier, if any; RequestID
	// is the request-scoped identifier used when there is no trace.
	TraceID   string
	RequestID string
}

// Build assembles the Descriptor for in, resolving the status through policy.
// A nil policy resolves every reason to its protocol fallback.
func Build(in Input, policy apis.StatusPolicy) Descriptor {
	reason := in.Reason
	if reason == failure.Empty {
		reason = failure.ServerError
		if in.Payload != nil {
			reason = failure.Validation
		}
	}
	status := ResolveStatus(policy, reason)

	d := Descriptor{
		Type:     TypeURI(status),
		Title:    resolveTitle(in, status),
		Status:   status,
		Detail:   in.Detail,
		Instance: in.Instance,
		TraceID:  traceID(in),
	}
	if in.Payload != nil {
		d.Errors = in.Payload
	}
	return d
}

// ResolveStatus returns the HTTP status of r under policy.
//
// The fallback is Fallback(r). Validation reasons first resolve that fallback
// through the failure.ClientError mapping, so overriding ClientError also
// moves validation problems unless Validation has a rule of its own.
func ResolveStatus(policy apis.StatusPolicy, r failure.Reason) int {
	fallback := Fallback(r)
	if policy == nil {
		return fallback
	}
	if r.Is(failure.Validation) {
		fallback = policy.StatusCode(failure.ClientError, fallback)
	}
	return policy.StatusCode(r, fallback)
}

// Fallback is the protocol default status for r: 400 for client errors and
// validation failures, 500 for everything else.
func Fallback(r failure.Reason) int {
	if failure.IsClientSide(r) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// TypeURI derives the problem type URI from a status code.
func TypeURI(status int) string {
	return TypeURIPrefix + strconv.Itoa(status)
}

func resolveTitle(in Input, status int) string {
	if in.TitleProvider != nil {
		if t, ok := in.TitleProvider(in.State); ok && t != "" {
			return t
		}
	}
	if in.DefaultTitle != "" {
		return in.DefaultTitle
	}
	if in.Payload != nil {
		return DefaultValidationTitle
	}
	if t := http.StatusText(status); t != "" {
		return t
	}
	return "Error"
}

func traceID(in Input) string {
	if in.TraceID != "" {
		return in.TraceID
	}
	if in.RequestID != "" {
		return in.RequestID
	}
	return uuid.NewString()
}
