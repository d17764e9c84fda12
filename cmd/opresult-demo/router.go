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

package main

import (
	"net/http"

	"dirpx.dev/opresult"
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/ginx"
	"dirpx.dev/opresult/httpx"
	"dirpx.dev/opresult/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

// methodNotAllowed answers routes that exist under another method. It is a
// client error refinement with its own status, so overrides of client_error
// do not change it.
var methodNotAllowed = failure.ClientError.Qualify("method_not_allowed")

// demoOptions are the status rules the demo routes depend on. They are
// applied after the configured ones.
func demoOptions() []opresult.Option {
	return []opresult.Option{
		opresult.WithHTTPStatus(methodNotAllowed, http.StatusMethodNotAllowed),
	}
}

type routerDeps struct {
	opts        *opresult.Options
	logger      zerolog.Logger
	registry    *prometheus.Registry
	tracer      trace.TracerProvider
	serviceName string
}

func newRouter(d routerDeps) (*gin.Engine, error) {
	rec, err := metrics.NewRecorder(d.registry)
	if err != nil {
		return nil, err
	}
	w := httpx.Writer{Options: d.opts, Metrics: rec}
	store := newPeople()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(otelgin.Middleware(d.serviceName, otelgin.WithTracerProvider(d.tracer)))
	r.Use(ginx.RequestID(), ginx.Logger(d.logger), gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		ginx.Abort(c, w, opresult.E(failure.NotFound, "No route matches "+c.Request.URL.Path+"."))
	})
	r.NoMethod(func(c *gin.Context) {
		ginx.Abort(c, w, opresult.E(methodNotAllowed, c.Request.Method+" is not allowed here."))
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})))

	r.POST("/people", func(c *gin.Context) {
		var in createPerson
		if err := ginx.BindJSON(c, w, &in); err != nil {
			if !c.IsAborted() {
				ginx.Abort(c, w, err)
			}
			return
		}
		ginx.Respond(c, w, store.create(c.Request.Context(), in), http.StatusCreated)
	})
	r.GET("/people/:id", func(c *gin.Context) {
		ginx.Respond(c, w, store.get(c.Param("id")), http.StatusOK)
	})
	r.DELETE("/people/:id", func(c *gin.Context) {
		ginx.Respond(c, w, store.delete(c.Param("id")), http.StatusNoContent)
	})

	// Diagnostic view of the status policy.
	r.GET("/explain/:reason", func(c *gin.Context) {
		reason, err := failure.Parse(c.Param("reason"))
		if err != nil {
			ginx.Abort(c, w, opresult.E(failure.ClientError, "Malformed failure reason.", opresult.WithCauseOption(err)))
			return
		}
		c.String(http.StatusOK, d.opts.Explain(reason))
	})
	return r, nil
}
