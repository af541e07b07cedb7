package service

import (
	"context"
	"log"
	"strings"
	"sync/atomic"

	"github.com/campus-wellbeing/survey-graph-backend/internal/api/http/middleware"
)

const (
	levelInfo int32 = iota
	levelWarn
	levelError
)

var minLevel atomic.Int32

// SetLogLevel drops lines below level ("debug", "info", "warn" or "error").
// Unknown names mean info.
func SetLogLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warn", "warning":
		minLevel.Store(levelWarn)
	case "error":
		minLevel.Store(levelError)
	default:
		minLevel.Store(levelInfo)
	}
}

func enabled(level int32) bool {
	return level >= minLevel.Load()
}

// Logger writes "[level] request_id=.. operation=.." lines.
type Logger struct {
	requestID string
}

func NewLogger(ctx context.Context) *Logger {
	requestID := "none"
	if ctx != nil {
		if rid := middleware.GetRequestID(ctx); rid != "" {
			requestID = rid
		}
	}
	return &Logger{requestID: requestID}
}

func (l *Logger) LogError(operation string, err error) {
	log.Printf("[error] request_id=%s operation=%s error=%v", l.requestID, operation, err)
}

func (l *Logger) LogInfof(operation string, format string, args ...any) {
	if !enabled(levelInfo) {
		return
	}
	log.Printf("[info] request_id=%s operation=%s "+format, append([]any{l.requestID, operation}, args...)...)
}

func (l *Logger) LogWarnf(operation string, format string, args ...any) {
	if !enabled(levelWarn) {
		return
	}
	log.Printf("[warn] request_id=%s operation=%s "+format, append([]any{l.requestID, operation}, args...)...)
}
