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

package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BodyField is the field name used for failures that concern the request
// body as a whole, such as malformed JSON.
const BodyField = "$"

// MessageFunc renders a single validator failure as a human message.
type MessageFunc func(fe validator.FieldError) string

// FromOption configures FromValidator and FromBindError.
type FromOption func(*fromConfig)

type fromConfig struct {
	message   MessageFunc
	namespace bool
}

// WithMessageFunc replaces the built-in English messages.
func WithMessageFunc(fn MessageFunc) FromOption {
	return func(c *fromConfig) {
		if fn != nil {
			c.message = fn
		}
	}
}

// WithNamespace keys fields by their namespace without the top-level struct
// name (e.g. "Address.City") instead of the bare field name.
func WithNamespace() FromOption {
	return func(c *fromConfig) { c.namespace = true }
}

// FromValidator converts github.com/go-playground/validator/v10 errors into a
// State. It reports false when err does not wrap validator.ValidationErrors.
// Fields appear in the order the validator reported them, which follows the
// struct declaration order.
func FromValidator(err error, opts ...FromOption) (*State, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}
	cfg := fromConfig{message: DefaultMessage}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := NewState()
	for _, fe := range ve {
		s.Add(fieldName(fe, cfg.namespace), cfg.message(fe))
	}
	return s, true
}

// FromBindError converts any error returned while decoding and validating a
// request body into a State. Validator failures are handled by FromValidator,
// JSON type mismatches are attributed to the offending field, and everything
// else is reported under BodyField.
func FromBindError(err error, opts ...FromOption) *State {
	if err == nil {
		return NewState()
	}
	if s, ok := FromValidator(err, opts...); ok {
		return s
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		typ := "the expected type"
		if te.Type != nil {
			typ = te.Type.String()
		}
		return NewState().Add(te.Field, fmt.Sprintf("The JSON value could not be converted to %s.", typ))
	}
	if errors.Is(err, io.EOF) {
		return NewState().Add(BodyField, "A non-empty request body is required.")
	}
	return NewState().Add(BodyField, err.Error())
}

// DefaultMessage is the built-in MessageFunc.
func DefaultMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "url", "uri", "http_url":
		return "Invalid URL format"
	case "uuid", "uuid4":
		return "Invalid UUID format"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "len":
		if isString {
			return fmt.Sprintf("Must be exactly %s characters", fe.Param())
		}
		return fmt.Sprintf("Must contain exactly %s items", fe.Param())
	case "min", "gte":
		if isString {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "lt":
		return fmt.Sprintf("Must be less than %s", fe.Param())
	default:
		return fe.Error()
	}
}

func fieldName(fe validator.FieldError, namespace bool) string {
	if !namespace {
		return fe.Field()
	}
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
