// Copyright (c) 2025 BVK Chaitanya

// Package ctxutil has small context-aware helpers shared by the polling
// loops and background goroutines.
package ctxutil

import (
	"context"
	"time"
)

// Sleep blocks the caller for the given duration. Returns early if the
// input context is canceled.
func Sleep(ctx context.Context, d time.Duration) {
	sctx, scancel := context.WithTimeout(ctx, d)
	<-sctx.Done()
	scancel()
}
