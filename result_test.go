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
	"errors"
	"testing"

	"dirpx.dev/opresult/failure"
)

func TestResult_Ok(t *testing.T) {
	r := Ok(42)
	if !r.Succeeded() || r.Value() != 42 || r.Err() != nil || r.Reason() != failure.Empty {
		t.Fatalf("unexpected result: %+v", r)
	}
	v, err := r.Unpack()
	if v != 42 || err != nil {
		t.Fatalf("Unpack = %v, %v", v, err)
	}
}

func TestResult_Fail(t *testing.T) {
	r := Fail[string](E(failure.NotFound, "missing"))
	if r.Succeeded() || r.Value() != "" {
		t.Fatal("failed result must not succeed")
	}
	if r.Reason() != failure.NotFound {
		t.Fatalf("Reason = %q", r.Reason())
	}
	if _, err := r.Unpack(); err == nil {
		t.Fatal("Unpack must return the failure")
	}
}

func TestResult_FailClassifiesForeignErrors(t *testing.T) {
	root := errors.New("disk full")
	r := Fail[int](root)
	if r.Reason() != failure.ServerError || !errors.Is(r.Err(), root) {
		t.Fatalf("unexpected failure: %+v", r.Err())
	}

	nilErr := Fail[int](nil)
	if nilErr.Succeeded() || nilErr.Reason() != failure.ServerError {
		t.Fatal("Fail(nil) must still be a failure")
	}
}
