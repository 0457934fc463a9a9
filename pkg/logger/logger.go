// Package logger is a thin context-aware facade over logrus.
package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/roguepikachu/snipshare/pkg/ctxutil"
)

// InitLogging configures the global logger from LOG_LEVEL and LOG_FORMAT.
func InitLogging() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	setLogLevel(level)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func setLogLevel(level string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logrus.Infof("invalid LOG_LEVEL %q, defaulting to info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.Debugf("log level set to %s", lvl)
}

// Sprintf formats like fmt.Sprintf but returns format untouched when there are no args,
// so messages containing a literal % survive.
func Sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return strings.ReplaceAll(format, "%%", "%")
	}
	if format == "" {
		return ""
	}
	return fmt.Sprintf(format, args...)
}

// With returns an entry carrying fields plus the request identity found in ctx.
func With(ctx context.Context, fields map[string]any) *logrus.Entry {
	all := ctxutil.Fields(ctx)
	for k, v := range fields {
		all[k] = v
	}
	return logrus.WithFields(all)
}

// WithField is With for a single key.
func WithField(ctx context.Context, key string, value any) *logrus.Entry {
	return With(ctx, map[string]any{key: value})
}

func Trace(ctx context.Context, msg string, args ...any) {
	With(ctx, nil).Trace(Sprintf(msg, args...))
}

func Debug(ctx context.Context, msg string, args ...any) {
	With(ctx, nil).Debug(Sprintf(msg, args...))
}

func Info(ctx context.Context, msg string, args ...any) {
	With(ctx, nil).Info(Sprintf(msg, args...))
}

func Warn(ctx context.Context, msg string, args ...any) {
	With(ctx, nil).Warn(Sprintf(msg, args...))
}

func Error(ctx context.Context, msg string, args ...any) {
	With(ctx, nil).Error(Sprintf(msg, args...))
}

func Fatal(ctx context.Context, msg string, args ...any) {
	With(ctx, nil).Fatal(Sprintf(msg, args...))
}
