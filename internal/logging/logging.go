// Package logging builds the service logger and its gin request logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
)

// New returns a logrus logger writing to w (stderr when nil). format is
// "json" or "text"; an unknown level falls back to info.
func New(level, format string, w io.Writer) *logrus.Logger {
	log := logrus.New()
	if w == nil {
		w = os.Stderr
	}
	log.SetOutput(w)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// WithError attaches err and, when it carries them, its oops code and
// context to the entry.
func WithError(log logrus.FieldLogger, err error) *logrus.Entry {
	entry := log.WithError(err)
	if oe, ok := oops.AsOops(err); ok {
		entry = entry.WithField("code", oe.Code())
		for k, v := range oe.Context() {
			entry = entry.WithField(k, v)
		}
	}
	return entry
}

// Requests logs one line per request, skipping the given paths.
func Requests(log logrus.FieldLogger, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if _, ok := skipped[c.Request.URL.Path]; ok {
			return
		}
		status := c.Writer.Status()
		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   status,
			"latency":  time.Since(start).String(),
			"clientIP": c.ClientIP(),
		})
		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
