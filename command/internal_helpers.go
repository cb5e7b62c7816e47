package command

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-swagdesk/pkg/types"
)

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func safeHooks(hooks types.Hooks) types.Hooks {
	return hooks
}

func safeActivitySink(sink types.ActivitySink) types.ActivitySink {
	return sink
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func logActivity(ctx context.Context, sink types.ActivitySink, record types.ActivityRecord) {
	if sink == nil {
		return
	}
	_ = sink.Log(ctx, record)
}

func emitActivityHook(ctx context.Context, hooks types.Hooks, record types.ActivityRecord) {
	if hooks.AfterActivity == nil {
		return
	}
	hooks.AfterActivity(ctx, record)
}

func emitOTPIssuedHook(ctx context.Context, hooks types.Hooks, email string) {
	if hooks.AfterOTPIssued == nil {
		return
	}
	hooks.AfterOTPIssued(ctx, email)
}

func emitSessionMintedHook(ctx context.Context, hooks types.Hooks, event types.SessionEvent) {
	if hooks.AfterSessionMinted == nil {
		return
	}
	hooks.AfterSessionMinted(ctx, event)
}

func emitSessionEndedHook(ctx context.Context, hooks types.Hooks, event types.SessionEvent) {
	if hooks.AfterSessionEnded == nil {
		return
	}
	hooks.AfterSessionEnded(ctx, event)
}

func emitRequestHook(ctx context.Context, hooks types.Hooks, event types.RequestEvent) {
	if hooks.AfterRequestChange == nil {
		return
	}
	hooks.AfterRequestChange(ctx, event)
}
