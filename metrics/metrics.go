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

// Package metrics records problem responses as Prometheus metrics.
//
// A Recorder is optional everywhere it is accepted; a nil *Recorder records
// nothing.
package metrics

import (
	"strconv"

	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/problem"
	"dirpx.dev/opresult/validation"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "opresult"

// Recorder counts problem responses by status and failure reason.
type Recorder struct {
	responses *prometheus.CounterVec
	fields    prometheus.Histogram
}

// NewRecorder creates a Recorder and registers its collectors on reg. A nil
// reg selects prometheus.DefaultRegisterer.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		responses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "problem_responses_total",
				Help:      "Total number of problem responses written.",
			},
			[]string{"status", "reason"},
		),
		fields: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "validation_fields",
				Help:      "Number of invalid fields per validation problem.",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
			},
		),
	}
	for _, c := range []prometheus.Collector{r.responses, r.fields} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNewRecorder is NewRecorder that panics on error.
func MustNewRecorder(reg prometheus.Registerer) *Recorder {
	r, err := NewRecorder(reg)
	if err != nil {
		panic(err)
	}
	return r
}

// Observe records one written descriptor. The reason label is the root of a
// catalogue reason, "other" for reasons outside the catalogue and "unknown"
// for an empty reason. Validation problems also record their number of
// distinct invalid fields.
func (r *Recorder) Observe(reason failure.Reason, d problem.Descriptor) {
	if r == nil {
		return
	}
	r.responses.WithLabelValues(strconv.Itoa(d.Status), label(reason)).Inc()
	if d.Errors != nil {
		r.fields.Observe(float64(fieldCount(d.Errors)))
	}
}

// fieldCount counts distinct fields. A Flat payload holds one entry per
// message, so its fields repeat.
func fieldCount(p validation.Payload) int {
	flat, ok := p.(validation.Flat)
	if !ok {
		return p.Len()
	}
	seen := make(map[string]struct{}, len(flat))
	for _, e := range flat {
		seen[e.Field] = struct{}{}
	}
	return len(seen)
}

func label(r failure.Reason) string {
	if r == failure.Empty {
		return "unknown"
	}
	root := r.Root()
	if !failure.IsKnown(root) {
		return "other"
	}
	return string(root)
}
