package logging

import (
	"context"

	"github.com/google/uuid"
)

type debugKeyType struct{}

// EnableDebugMode returns a context whose CDebugw statements are written whatever the logger's
// level. key identifies the traced operation in the logs; an empty key gets a random UUID.
func EnableDebugMode(ctx context.Context, key string) context.Context {
	if key == "" {
		key = uuid.NewString()
	}
	return context.WithValue(ctx, debugKeyType{}, key)
}

// DebugKey returns the key passed to EnableDebugMode, or "" if ctx is not in debug mode.
func DebugKey(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	key, _ := ctx.Value(debugKeyType{}).(string)
	return key
}

// IsDebugMode reports whether ctx has debug mode enabled.
func IsDebugMode(ctx context.Context) bool {
	return DebugKey(ctx) != ""
}
