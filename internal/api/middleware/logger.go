package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger attaches a request-scoped zerolog logger to the request context and
// emits one line per request with method, path, status and latency.
func Logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			l := log.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Logger()

			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			var evt *zerolog.Event
			switch {
			case res.Status >= 500:
				evt = l.Error()
			case res.Status >= 400:
				evt = l.Warn()
			default:
				evt = l.Info()
			}

			evt.
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Int64("bytes_out", res.Size).
				Msg("Request handled")

			return nil
		}
	}
}
