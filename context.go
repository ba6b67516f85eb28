package aish

import "context"

type contextKey int

const ctxKeyWorkDir contextKey = iota

// WithWorkDir returns a context carrying the working directory tools should
// resolve relative paths against.
func WithWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, ctxKeyWorkDir, dir)
}

// WorkDir returns the working directory from the context, or empty string.
func WorkDir(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyWorkDir).(string); ok {
		return v
	}
	return ""
}
