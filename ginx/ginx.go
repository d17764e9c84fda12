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

// Package ginx integrates operation results with the gin web framework.
//
// Typical wiring:
//
//	w := httpx.Writer{Options: opts, Metrics: rec}
//	r := gin.New()
//	r.Use(ginx.RequestID(), ginx.Logger(log.Logger))
//	r.POST("/people", func(c *gin.Context) {
//	    var in createPerson
//	    if err := ginx.BindJSON(c, w, &in); err != nil {
//	        return
//	    }
//	    ginx.Respond(c, w, svc.Create(c.Request.Context(), in), http.StatusCreated)
//	})
package ginx

import (
	"net/http"
	"time"

	"dirpx.dev/opresult"
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/httpx"
	"dirpx.dev/opresult/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// requestIDKey is the gin context key under which the request ID is stored.
const requestIDKey = "requestID"

// RequestID returns a middleware that assigns every request an identifier.
// An incoming X-Request-ID header is reused; otherwise a UUID is generated.
// The identifier is echoed in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(httpx.RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(httpx.RequestIDHeader, rid)
		c.Next()
	}
}

// Logger returns a middleware that stores a request-scoped child of base in
// the request context (see zerolog.Ctx) and logs one line per request,
// at a level chosen by the response status.
func Logger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		l := base.With().
			Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		ev := l.With().
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()
		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= http.StatusInternalServerError:
			ev.Error().Msg("request")
		case status >= http.StatusBadRequest:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// Meta returns the problem metadata of the current request. The request ID
// assigned by RequestID wins over the incoming header.
func Meta(c *gin.Context) opresult.Meta {
	m := httpx.MetaFromRequest(c.Request)
	if rid := c.GetString(requestIDKey); rid != "" {
		m.RequestID = rid
	}
	return m
}

// Abort writes the problem of err and aborts the handler chain. Causes of
// server errors are logged through the request logger.
func Abort(c *gin.Context, w httpx.Writer, err error) {
	if err == nil {
		return
	}
	w.WriteErrorMeta(c.Writer, c.Request, err, Meta(c))
	c.Abort()
}

// AbortValidation writes the validation problem of state and aborts the
// handler chain.
func AbortValidation(c *gin.Context, w httpx.Writer, state *validation.State) {
	w.WriteProblem(c.Writer, c.Request, failure.Validation, w.Options.ValidationProblem(state, Meta(c)))
	c.Abort()
}

// BindJSON decodes and validates the request body into dst.
//
// On failure it returns an *opresult.Error of reason failure.Validation. When
// the options enable automatic validation responses, the validation problem
// is written and the chain aborted before returning; otherwise the handler
// decides what to answer.
func BindJSON(c *gin.Context, w httpx.Writer, dst any, opts ...validation.FromOption) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	state := validation.FromBindError(err, opts...)
	if w.Options.AutoValidationResponse() {
		AbortValidation(c, w, state)
	}
	return opresult.Invalid(state, opresult.WithCauseOption(err))
}

// Respond writes res: its value as JSON with okStatus on success, its problem
// otherwise. An okStatus of 204 writes no body.
func Respond[T any](c *gin.Context, w httpx.Writer, res opresult.Result[T], okStatus int) {
	if !res.Succeeded() {
		Abort(c, w, res.Err())
		return
	}
	if okStatus == http.StatusNoContent {
		c.Status(okStatus)
		return
	}
	c.JSON(okStatus, res.Value())
}
