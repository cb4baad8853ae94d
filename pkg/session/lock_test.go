package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/canopy/pkg/adapters/memory"
	"github.com/aretw0/canopy/pkg/domain"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	count := 1000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.Save(ctx, sid, domain.NewScopeSnapshot())
		_ = mgr.Delete(ctx, sid)
	}

	if n := mgr.activeLocks(); n != 0 {
		t.Errorf("%d locks remaining in memory after Delete", n)
	}
}
