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

package adapter

import (
	"encoding/json"
	"reflect"
	"testing"

	"dirpx.dev/opresult"
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/validation"
)

func TestProblemStruct_RoundTrip(t *testing.T) {
	state := validation.NewState().
		Add("Zeta", "z1").
		Add("Email", "Required").
		Add("Age", "Must be positive", "Must be a number")

	for _, f := range []validation.Format{validation.GroupedByField, validation.FlatList} {
		o := opresult.MustNew(opresult.WithErrorResponseFormat(f))
		d := o.ValidationProblem(state, opresult.Meta{Instance: "/people", TraceID: "trace"})
		s, err := ProblemStruct(d)
		if err != nil {
			t.Fatalf("ProblemStruct: %v", err)
		}
		if s.Fields["status"].GetNumberValue() != 400 || s.Fields["traceId"].GetStringValue() != "trace" {
			t.Fatalf("struct = %v", s)
		}
		if _, ok := s.Fields[OrderMember]; ok != (f == validation.GroupedByField) {
			t.Fatalf("format %v: %s present = %v", f, OrderMember, ok)
		}
		back, err := DescriptorFromStruct(s)
		if err != nil {
			t.Fatalf("DescriptorFromStruct: %v", err)
		}
		if !reflect.DeepEqual(back, d) {
			t.Fatalf("format %v: round trip mismatch\n got %#v\nwant %#v", f, back, d)
		}
		want, _ := json.Marshal(d.Errors)
		got, _ := json.Marshal(back.Errors)
		if string(got) != string(want) {
			t.Fatalf("format %v: errors = %s, want %s", f, got, want)
		}
	}

	empty := opresult.MustNew().ValidationProblem(nil, opresult.Meta{TraceID: "t"})
	s, err := ProblemStruct(empty)
	if err != nil {
		t.Fatalf("ProblemStruct(empty): %v", err)
	}
	back, err := DescriptorFromStruct(s)
	if err != nil || back.Errors == nil || back.Errors.Len() != 0 {
		t.Fatalf("empty grouped errors must stay present: %+v, %v", back, err)
	}

	if _, err = DescriptorFromStruct(nil); err == nil {
		t.Fatal("nil struct must fail")
	}
}

func TestFieldViolations_RoundTrip(t *testing.T) {
	state := validation.NewState().Add("Email", "Required", "Invalid").Add("Skip").Add("Age", "Must be positive")
	vs := FieldViolations(state)
	if len(vs) != 3 || vs[0].GetField() != "Email" || vs[1].GetDescription() != "Invalid" || vs[2].GetField() != "Age" {
		t.Fatalf("violations = %v", vs)
	}
	back := StateFromViolations(vs)
	want := []validation.Entry{
		{Field: "Email", Messages: []string{"Required", "Invalid"}},
		{Field: "Age", Messages: []string{"Must be positive"}},
	}
	if !reflect.DeepEqual(back.Entries(), want) {
		t.Fatalf("entries = %+v", back.Entries())
	}
	if len(FieldViolations(nil)) != 0 {
		t.Fatal("nil state must yield no violations")
	}
}

func TestErrorInfo(t *testing.T) {
	e := opresult.E(failure.NotFound.Qualify("order"), "missing",
		opresult.WithDetailOption("order_id", 42),
	)
	info := ErrorInfo(e, "orders.example.com")
	if info.GetReason() != "not_found.order" || info.GetDomain() != "orders.example.com" {
		t.Fatalf("info = %v", info)
	}
	if info.GetMetadata()["order_id"] != "42" {
		t.Fatalf("metadata = %v", info.GetMetadata())
	}
	if ErrorInfo(nil, "x") != nil {
		t.Fatal("nil error must yield nil info")
	}
}

func TestRequestInfo(t *testing.T) {
	if got := RequestInfo(opresult.Meta{TraceID: "t", RequestID: "r", Instance: "/p"}); got.GetRequestId() != "t" || got.GetServingData() != "/p" {
		t.Fatalf("info = %v", got)
	}
	if got := RequestInfo(opresult.Meta{RequestID: "r"}); got.GetRequestId() != "r" {
		t.Fatalf("info = %v", got)
	}
}
