package core

import "context"

// optionKey names a boolean execution option carried on a context.
type optionKey uint8

const (
	suppressHeaderOpt optionKey = iota + 1
	skipTrackingOpt
)

func withOption(ctx context.Context, key optionKey) context.Context {
	return context.WithValue(ctx, key, true)
}

// hasOption is false for unset keys and for values of another type.
func hasOption(ctx context.Context, key optionKey) bool {
	on, _ := ctx.Value(key).(bool)
	return on
}

// WithSuppressHeader drops the banner above ranked output. MCP tools use it.
func WithSuppressHeader(ctx context.Context) context.Context {
	return withOption(ctx, suppressHeaderOpt)
}

// WithSkipTracking keeps a ranking out of the analysis store.
func WithSkipTracking(ctx context.Context) context.Context {
	return withOption(ctx, skipTrackingOpt)
}

func shouldSuppressHeader(ctx context.Context) bool { return hasOption(ctx, suppressHeaderOpt) }
func shouldSkipTracking(ctx context.Context) bool   { return hasOption(ctx, skipTrackingOpt) }
