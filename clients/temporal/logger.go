package temporal

import (
	"context"

	sdklog "go.temporal.io/sdk/log"
	"goa.design/clue/log"
)

// clueLogger adapts the Temporal SDK logger interface to clue. The context
// captured at construction carries the clue log configuration; SDK log calls
// have no context of their own.
type clueLogger struct {
	ctx context.Context
}

// NewLogger returns a Temporal SDK logger emitting through clue. The context
// must have been initialized with log.Context.
func NewLogger(ctx context.Context) sdklog.Logger {
	return clueLogger{ctx: ctx}
}

func (l clueLogger) Debug(msg string, keyvals ...any) {
	log.Debug(l.ctx, fielders(msg, keyvals)...)
}

func (l clueLogger) Info(msg string, keyvals ...any) {
	log.Info(l.ctx, fielders(msg, keyvals)...)
}

func (l clueLogger) Warn(msg string, keyvals ...any) {
	log.Warn(l.ctx, fielders(msg, keyvals)...)
}

func (l clueLogger) Error(msg string, keyvals ...any) {
	log.Error(l.ctx, nil, fielders(msg, keyvals)...)
}

// fielders converts variadic key-value pairs (k1, v1, k2, v2, ...) into
// clue's log.Fielder slice, prefixed with the message. Non-string keys are
// skipped; an odd trailing key is paired with nil.
func fielders(msg string, keyvals []any) []log.Fielder {
	fs := []log.Fielder{log.KV{K: "msg", V: msg}}
	for i := 0; i < len(keyvals); i += 2 {
		k, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		var v any
		if i+1 < len(keyvals) {
			v = keyvals[i+1]
		}
		fs = append(fs, log.KV{K: k, V: v})
	}
	return fs
}
