package middleware

import (
	"net/http"
	"time"

	"github.com/facussc24/2026-sub001/internal/apierror"
	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StatusFor translates an engine error code into an HTTP status.
func StatusFor(code model.ErrorCode) int {
	switch code {
	case model.CodeNotFound:
		return http.StatusNotFound
	case model.CodeInvalidStructuralOp:
		return http.StatusUnprocessableEntity
	case model.CodeDuplicateKey:
		return http.StatusConflict
	case model.CodeTransport:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ErrorHandler renders errors attached with c.Error as the outcome envelope.
// Domain errors keep their message. Transport and unclassified errors are
// logged in full and answered with a fixed message.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		code := model.CodeOf(err)
		status := StatusFor(code)
		switch code {
		case model.CodeTransport, model.CodeInternal:
			log.Error().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Str("codigo", string(code)).
				Err(err).
				Msg("request failed")
		}
		c.AbortWithStatusJSON(status, apierror.NewOutcome(string(code), model.PublicMessage(err)))
	}
}

// Recovery handles panics and converts them into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					apierror.NewOutcome(string(model.CodeInternal), model.MsgInternal))
			}
		}()
		c.Next()
	}
}

// Logger logs each request with method, path, status, latency, and
// request_id. Client errors log at warn and server errors at error.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zerolog.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zerolog.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zerolog.WarnLevel
		}
		ev := log.WithLevel(level).
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start))
		if id := c.Param("id"); id != "" {
			ev = ev.Str("producto", id)
		}
		ev.Msg("request")
	}
}
