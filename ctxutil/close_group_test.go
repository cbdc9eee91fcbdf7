// Copyright (c) 2025 BVK Chaitanya

package ctxutil

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestCloseGroup(t *testing.T) {
	var cg CloseGroup

	var done int32
	for i := 0; i < 100; i++ {
		cg.Go(func(ctx context.Context) {
			<-ctx.Done()
			atomic.AddInt32(&done, 1)
		})
	}

	cg.Close()
	if n := atomic.LoadInt32(&done); n != 100 {
		t.Fatalf("want all goroutines finished before Close returns, got %d", n)
	}
}
