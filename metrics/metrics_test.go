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

package metrics

import (
	"strings"
	"testing"

	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/problem"
	"dirpx.dev/opresult/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := MustNewRecorder(reg)

	r.Observe(failure.NotFound.Qualify("order"), problem.Descriptor{Status: 404})
	r.Observe(failure.NotFound, problem.Descriptor{Status: 404})
	r.Observe(failure.MustParse("payment_required"), problem.Descriptor{Status: 500})
	r.Observe(failure.Validation, problem.Descriptor{
		Status: 400,
		Errors: validation.Flat{{Field: "A", Message: "m"}, {Field: "B", Message: "n"}},
	})

	if got := testutil.ToFloat64(r.responses.WithLabelValues("404", "not_found")); got != 2 {
		t.Fatalf("not_found count = %v", got)
	}
	if got := testutil.ToFloat64(r.responses.WithLabelValues("500", "other")); got != 1 {
		t.Fatalf("other count = %v", got)
	}

	want := `
# HELP opresult_problem_responses_total Total number of problem responses written.
# TYPE opresult_problem_responses_total counter
opresult_problem_responses_total{reason="not_found",status="404"} 2
opresult_problem_responses_total{reason="other",status="500"} 1
opresult_problem_responses_total{reason="validation",status="400"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "opresult_problem_responses_total"); err != nil {
		t.Fatal(err)
	}
	if n := testutil.CollectAndCount(r.fields); n != 1 {
		t.Fatalf("histogram series = %d", n)
	}
}

func TestRecorder_ValidationFieldsCountsDistinctFields(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := MustNewRecorder(reg)

	r.Observe(failure.Validation, problem.Descriptor{
		Status: 400,
		Errors: validation.Flat{
			{Field: "Email", Message: "Required"},
			{Field: "Email", Message: "Invalid"},
			{Field: "Age", Message: "Must be positive"},
		},
	})
	r.Observe(failure.Validation, problem.Descriptor{
		Status: 400,
		Errors: validation.Grouped{
			{Field: "Email", Messages: []string{"Required", "Invalid"}},
			{Field: "Age", Messages: []string{"Must be positive"}},
		},
	})
	r.Observe(failure.Validation, problem.Descriptor{Status: 400, Errors: validation.Flat{}})

	want := `
# HELP opresult_validation_fields Number of invalid fields per validation problem.
# TYPE opresult_validation_fields histogram
opresult_validation_fields_bucket{le="1"} 1
opresult_validation_fields_bucket{le="2"} 3
opresult_validation_fields_bucket{le="3"} 3
opresult_validation_fields_bucket{le="5"} 3
opresult_validation_fields_bucket{le="8"} 3
opresult_validation_fields_bucket{le="13"} 3
opresult_validation_fields_bucket{le="21"} 3
opresult_validation_fields_bucket{le="+Inf"} 3
opresult_validation_fields_sum 4
opresult_validation_fields_count 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "opresult_validation_fields"); err != nil {
		t.Fatal(err)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.Observe(failure.ServerError, problem.Descriptor{Status: 500})
}

func TestNewRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNewRecorder(reg)
	if _, err := NewRecorder(reg); err == nil {
		t.Fatal("second registration on the same registry must fail")
	}
}
