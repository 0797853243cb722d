package log

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// std is the process-wide logger. Handlers and services log through the
// package-level helpers instead of carrying a logger around.
var std = logrus.New()

func init() {
	std.SetOutput(os.Stdout)
	std.SetLevel(logrus.InfoLevel)
	std.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// SetOutput redirects all log output, mainly for tests.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// SetLevel accepts the usual logrus level names ("debug", "info", ...).
// Unknown names leave the level unchanged.
func SetLevel(name string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(name))
	if err != nil {
		std.Warnf("unknown log level %q, keeping %s", name, std.GetLevel())
		return
	}
	std.SetLevel(lvl)
}

// WithField returns an entry with one structured field attached.
func WithField(key string, value interface{}) *logrus.Entry {
	return std.WithField(key, value)
}

// WithError returns an entry with the error attached under the "error" key.
func WithError(err error) *logrus.Entry {
	return std.WithError(err)
}

func Debugf(format string, args ...interface{}) { std.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { std.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { std.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { std.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { std.Fatalf(format, args...) }

func Debug(args ...interface{}) { std.Debug(args...) }
func Info(args ...interface{})  { std.Info(args...) }
func Warn(args ...interface{})  { std.Warn(args...) }
func Error(args ...interface{}) { std.Error(args...) }
