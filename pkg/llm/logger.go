package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
)

// Fields are structured logging fields rendered as key=value pairs.
type Fields map[string]interface{}

// Logger is the logging surface used by the client.
type Logger interface {
	Debug(ctx context.Context, msg string, fields Fields)
	Info(ctx context.Context, msg string, fields Fields)
	Error(ctx context.Context, err error, fields Fields)
}

// logxLogger filters by its own level before handing off to logx, so the
// process-wide level stays owned by RestConf.Log.
type logxLogger struct {
	level uint32
}

// NewLogger returns a Logger backed by go-zero's logx that drops messages
// below level.
func NewLogger(level string) Logger {
	return logxLogger{level: parseLevel(level)}
}

func (l logxLogger) enabled(level uint32) bool {
	return level >= l.level
}

func (l logxLogger) Debug(ctx context.Context, msg string, fields Fields) {
	if l.enabled(logx.DebugLevel) {
		logx.WithContext(ctx).Debug(msgWithFields(msg, fields))
	}
}

func (l logxLogger) Info(ctx context.Context, msg string, fields Fields) {
	if l.enabled(logx.InfoLevel) {
		logx.WithContext(ctx).Info(msgWithFields(msg, fields))
	}
}

func (l logxLogger) Error(ctx context.Context, err error, fields Fields) {
	if l.enabled(logx.ErrorLevel) {
		logx.WithContext(ctx).Error(msgWithFields(err.Error(), fields))
	}
}

func parseLevel(level string) uint32 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logx.DebugLevel
	case "error":
		return logx.ErrorLevel
	case "severe", "fatal":
		return logx.SevereLevel
	default:
		return logx.InfoLevel
	}
}

// msgWithFields appends fields sorted by key so log lines are stable.
func msgWithFields(msg string, fields Fields) string {
	if len(fields) == 0 {
		return msg
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return fmt.Sprintf("%s | %s", msg, strings.Join(parts, " "))
}
