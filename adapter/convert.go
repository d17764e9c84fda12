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

// Package adapter converts problem descriptors and failures into protobuf
// well-known types and google.rpc error details.
//
// The conversions are used by the gRPC transport and can equally serve
// structured logging or message-bus propagation.
package adapter

import (
	"encoding/json"
	"fmt"
	"sort"

	"dirpx.dev/opresult"
	"dirpx.dev/opresult/problem"
	"dirpx.dev/opresult/validation"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// OrderMember is the struct member that lists the fields of a grouped
// errors member in declaration order. Struct keys carry no order, so
// ProblemStruct records it and DescriptorFromStruct restores it.
const OrderMember = "errorsOrder"

// ProblemStruct converts d into a structpb.Struct with the same member names
// as the JSON descriptor, plus OrderMember for grouped errors. Numbers become
// float64, as with any structpb value.
func ProblemStruct(d problem.Descriptor) (*structpb.Struct, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if g, ok := d.Errors.(validation.Grouped); ok {
		order := make([]any, 0, len(g))
		for _, fe := range g {
			order = append(order, fe.Field)
		}
		m[OrderMember] = order
	}
	return structpb.NewStruct(m)
}

// DescriptorFromStruct is the inverse of ProblemStruct. Grouped errors come
// back in the order recorded under OrderMember.
func DescriptorFromStruct(s *structpb.Struct) (problem.Descriptor, error) {
	var d problem.Descriptor
	if s == nil {
		return d, fmt.Errorf("adapter: nil problem struct")
	}
	fields := make(map[string]*structpb.Value, len(s.GetFields()))
	for k, v := range s.GetFields() {
		fields[k] = v
	}
	orderValue := fields[OrderMember]
	delete(fields, OrderMember)

	raw, err := protojson.Marshal(&structpb.Struct{Fields: fields})
	if err != nil {
		return d, err
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return d, err
	}
	if g, ok := d.Errors.(validation.Grouped); ok && orderValue != nil {
		d.Errors = reorder(g, orderValue.GetListValue().GetValues())
	}
	return d, nil
}

// reorder sorts g by the field names in order. Fields missing from order
// keep their relative position after the listed ones.
func reorder(g validation.Grouped, order []*structpb.Value) validation.Grouped {
	byField := make(map[string]validation.FieldErrors, len(g))
	for _, fe := range g {
		byField[fe.Field] = fe
	}
	out := make(validation.Grouped, 0, len(g))
	for _, v := range order {
		if fe, ok := byField[v.GetStringValue()]; ok {
			out = append(out, fe)
			delete(byField, fe.Field)
		}
	}
	for _, fe := range g {
		if _, ok := byField[fe.Field]; ok {
			out = append(out, fe)
		}
	}
	return out
}

// FieldViolations flattens state into BadRequest field violations, one per
// message, in field and message order.
func FieldViolations(state *validation.State) []*errdetails.BadRequest_FieldViolation {
	flat, _ := validation.Aggregate(state, validation.FlatList).(validation.Flat)
	out := make([]*errdetails.BadRequest_FieldViolation, 0, len(flat))
	for _, e := range flat {
		out = append(out, &errdetails.BadRequest_FieldViolation{
			Field:       e.Field,
			Description: e.Message,
		})
	}
	return out
}

// StateFromViolations rebuilds a validation.State from field violations.
func StateFromViolations(vs []*errdetails.BadRequest_FieldViolation) *validation.State {
	s := validation.NewState()
	for _, v := range vs {
		s.Add(v.GetField(), v.GetDescription())
	}
	return s
}

// ErrorInfo describes e as a google.rpc.ErrorInfo. Details are rendered with
// fmt into the metadata map.
func ErrorInfo(e *opresult.Error, domain string) *errdetails.ErrorInfo {
	if e == nil {
		return nil
	}
	info := &errdetails.ErrorInfo{
		Reason: string(e.Reason),
		Domain: domain,
	}
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		info.Metadata = make(map[string]string, len(keys))
		for _, k := range keys {
			info.Metadata[k] = fmt.Sprint(e.Details[k])
		}
	}
	return info
}

// RequestInfo carries the request identifiers of m.
func RequestInfo(m opresult.Meta) *errdetails.RequestInfo {
	id := m.TraceID
	if id == "" {
		id = m.RequestID
	}
	return &errdetails.RequestInfo{
		RequestId:   id,
		ServingData: m.Instance,
	}
}
