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

// Option configures Options during New.
type Option func(*settings)

type settings struct {
	statusOpts      []status.Option
	format          validation.Format
	autoValidation  bool
	titleProvider   problem.TitleProvider
	validationTitle string
}

// WithHTTPStatus overrides the HTTP status of a failure reason.
func WithHTTPStatus(r failure.Reason, code int) Option {
	return WithStatusOptions(status.WithHTTPStatus(r, code))
}

// WithGRPCCode overrides the gRPC code of a failure reason.
func WithGRPCCode(r failure.Reason, c codes.Code) Option {
	return WithStatusOptions(status.WithGRPCCode(r, c))
}

// WithStatusPrefix adds an HTTP rule for every refinement of a reason prefix,
// e.g. "not_found.archive".
func WithStatusPrefix(prefix string, code int) Option {
	return WithStatusOptions(status.WithHTTPPrefix(prefix, code))
}

// WithStatusOptions passes raw status.Option values to the policy builder.
func WithStatusOptions(opts ...status.Option) Option {
	return func(s *settings) { s.statusOpts = append(s.statusOpts, opts...) }
}

// WithErrorResponseFormat selects the validation payload shape.
func WithErrorResponseFormat(f validation.Format) Option {
	return func(s *settings) { s.format = f }
}

// WithAutoValidationResponse enables or disables automatic validation
// problems in the transport adapters.
func WithAutoValidationResponse(enabled bool) Option {
	return func(s *settings) { s.autoValidation = enabled }
}

// WithValidationTitle sets the default title of validation problems. An empty
// title restores problem.DefaultValidationTitle.
func WithValidationTitle(title string) Option {
	return func(s *settings) {
		if title == "" {
			title = problem.DefaultValidationTitle
		}
		s.validationTitle = title
	}
}

// WithTitleProvider installs a function that may compute the title of a
// validation problem from its snapshot.
func WithTitleProvider(fn problem.TitleProvider) Option {
	return func(s *settings) { s.titleProvider = fn }
}
