package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	stored := zap.NewNop()
	fallback := zap.NewNop()
	ctx := ContextWithLogger(context.Background(), stored)

	if got := FromContext(ctx, fallback); got != stored {
		t.Error("expected the stored logger, got the fallback")
	}
}

func TestFromContext_Fallback(t *testing.T) {
	fallback := zap.NewNop()

	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Error("expected the fallback logger")
	}
}
